package cache

import "strings"

const (
	GlobalKeyPrefix = "quizrepair"

	// ServiceRepair and ObjectQuizzes name the hashes written by the upload step.
	ServiceRepair = "repair"
	ObjectQuizzes = "quizzes"
)

// GenerateCacheKey generates a key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// DifficultyKey is the hash holding every section of one difficulty level.
func DifficultyKey(difficulty string) string {
	return GenerateCacheKey(ServiceRepair, ObjectQuizzes, difficulty)
}

// IndexKey is the set listing every difficulty hash written by the last upload.
func IndexKey() string {
	return GenerateCacheKey(ServiceRepair, "index", ObjectQuizzes)
}
