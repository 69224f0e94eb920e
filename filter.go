package stlog

// MaxLevel is the most verbose level compiled into the program. The override
// tag wins over the profile default.
const MaxLevel = Level(overrideSet*int(overrideLevel) + (1-overrideSet)*int(profileLevel))

// Enabled reports whether call sites of level are live in this build. With a
// constant argument the comparison folds and dead call sites disappear.
func Enabled(level Level) bool {
	return level.EnabledAt(MaxLevel)
}

// EnabledAt reports whether l passes a filter set to max.
func (l Level) EnabledAt(max Level) bool {
	return l != LevelOff && l <= max
}
