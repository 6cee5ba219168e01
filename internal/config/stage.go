package config

import "strings"

// Stage is the deployment environment that qualifies stage-scoped keys.
type Stage string

const (
	StageDevelopment Stage = "development"
	StageProduction  Stage = "production"
)

const stageKey = "STAGE"

func resolveStage(src Source) Stage {
	return Stage(stringSetting(src, stageKey, string(StageProduction)))
}

// Suffix is the upper-cased stage used as a key suffix.
func (s Stage) Suffix() string {
	return strings.ToUpper(string(s))
}

// Qualify builds the stage-scoped key for base, e.g. DEBUG_PRODUCTION.
func (s Stage) Qualify(base string) string {
	return base + "_" + s.Suffix()
}

// IsProduction reports whether s is exactly the production stage.
func (s Stage) IsProduction() bool {
	return s == StageProduction
}

func (s Stage) String() string {
	return string(s)
}
