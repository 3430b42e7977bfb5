package constants

// TaskKind selects which detail table, if any, belongs to a task. It is
// resolved from the task type's translation key.
type TaskKind string

const (
	KindCustom        TaskKind = "CUSTOM_TASK"
	KindSoilAmendment TaskKind = "SOIL_AMENDMENT_TASK"
	KindPestControl   TaskKind = "PEST_CONTROL_TASK"
	KindIrrigation    TaskKind = "IRRIGATION_TASK"
	KindScouting      TaskKind = "SCOUTING_TASK"
	KindSoil          TaskKind = "SOIL_TASK"
	KindFieldWork     TaskKind = "FIELD_WORK_TASK"
	KindHarvest       TaskKind = "HARVEST_TASK"
	KindCleaning      TaskKind = "CLEANING_TASK"
	KindPlant         TaskKind = "PLANT_TASK"
	KindTransplant    TaskKind = "TRANSPLANT_TASK"
)

var detailKinds = map[TaskKind]struct{}{
	KindSoilAmendment: {},
	KindPestControl:   {},
	KindIrrigation:    {},
	KindScouting:      {},
	KindSoil:          {},
	KindFieldWork:     {},
	KindHarvest:       {},
	KindCleaning:      {},
	KindPlant:         {},
	KindTransplant:    {},
}

// KindFromTranslationKey maps a task type translation key to its kind.
// Farm-defined types carry their own keys and resolve to KindCustom.
func KindFromTranslationKey(key string) TaskKind {
	k := TaskKind(key)
	if _, ok := detailKinds[k]; ok {
		return k
	}
	return KindCustom
}

// HasDetail reports whether tasks of this kind own a detail row.
func (k TaskKind) HasDetail() bool {
	_, ok := detailKinds[k]
	return ok
}
