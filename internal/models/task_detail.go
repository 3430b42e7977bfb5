package model

import (
	"encoding/json"
	"fmt"

	"farm-task-service.com/farm-task-service/internal/constants"
)

// Detail is the category-specific record of a task. Each variant lives in
// its own table keyed by task_id, and the set of variants is closed.
type Detail interface {
	Kind() constants.TaskKind
	SetTaskID(id int)
}

type SoilAmendmentTask struct {
	TaskID          int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	ProductID       *int     `json:"product_id"`
	ProductQuantity *float64 `json:"product_quantity"`
	Purpose         string   `json:"purpose"`
}

type PestControlTask struct {
	TaskID          int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	ProductID       *int     `json:"product_id"`
	ProductQuantity *float64 `json:"product_quantity"`
	PestTarget      string   `json:"pest_target"`
	ControlMethod   string   `json:"control_method"`
}

type IrrigationTask struct {
	TaskID            int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	Type              string   `json:"type"`
	EstimatedDuration *float64 `json:"estimated_duration"`
	EstimatedFlowRate *float64 `json:"estimated_flow_rate"`
}

type ScoutingTask struct {
	TaskID int    `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	Type   string `json:"type"`
}

type SoilTask struct {
	TaskID      int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	SampleDepth *float64 `json:"sample_depth"`
	Texture     string   `json:"texture"`
}

type FieldWorkTask struct {
	TaskID int    `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	Type   string `json:"type"`
}

type HarvestTask struct {
	TaskID            int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	ProjectedQuantity *float64 `json:"projected_quantity"`
	ActualQuantity    *float64 `json:"actual_quantity"`
	HarvestEverything bool     `json:"harvest_everything"`
}

type CleaningTask struct {
	TaskID         int      `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	CleaningTarget string   `json:"cleaning_target"`
	AgentUsed      bool     `json:"agent_used"`
	WaterUsage     *float64 `json:"water_usage"`
}

type PlantTask struct {
	TaskID                   int  `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	PlantingManagementPlanID *int `json:"planting_management_plan_id"`
}

type TransplantTask struct {
	TaskID                       int  `gorm:"primaryKey;autoIncrement:false" json:"task_id"`
	PlantingManagementPlanID     *int `json:"planting_management_plan_id"`
	PrevPlantingManagementPlanID *int `json:"prev_planting_management_plan_id"`
}

func (SoilAmendmentTask) TableName() string { return "soil_amendment_task" }
func (PestControlTask) TableName() string   { return "pest_control_task" }
func (IrrigationTask) TableName() string    { return "irrigation_task" }
func (ScoutingTask) TableName() string      { return "scouting_task" }
func (SoilTask) TableName() string          { return "soil_task" }
func (FieldWorkTask) TableName() string     { return "field_work_task" }
func (HarvestTask) TableName() string       { return "harvest_task" }
func (CleaningTask) TableName() string      { return "cleaning_task" }
func (PlantTask) TableName() string         { return "plant_task" }
func (TransplantTask) TableName() string    { return "transplant_task" }

func (*SoilAmendmentTask) Kind() constants.TaskKind { return constants.KindSoilAmendment }
func (*PestControlTask) Kind() constants.TaskKind   { return constants.KindPestControl }
func (*IrrigationTask) Kind() constants.TaskKind    { return constants.KindIrrigation }
func (*ScoutingTask) Kind() constants.TaskKind      { return constants.KindScouting }
func (*SoilTask) Kind() constants.TaskKind          { return constants.KindSoil }
func (*FieldWorkTask) Kind() constants.TaskKind     { return constants.KindFieldWork }
func (*HarvestTask) Kind() constants.TaskKind       { return constants.KindHarvest }
func (*CleaningTask) Kind() constants.TaskKind      { return constants.KindCleaning }
func (*PlantTask) Kind() constants.TaskKind         { return constants.KindPlant }
func (*TransplantTask) Kind() constants.TaskKind    { return constants.KindTransplant }

func (d *SoilAmendmentTask) SetTaskID(id int) { d.TaskID = id }
func (d *PestControlTask) SetTaskID(id int)   { d.TaskID = id }
func (d *IrrigationTask) SetTaskID(id int)    { d.TaskID = id }
func (d *ScoutingTask) SetTaskID(id int)      { d.TaskID = id }
func (d *SoilTask) SetTaskID(id int)          { d.TaskID = id }
func (d *FieldWorkTask) SetTaskID(id int)     { d.TaskID = id }
func (d *HarvestTask) SetTaskID(id int)       { d.TaskID = id }
func (d *CleaningTask) SetTaskID(id int)      { d.TaskID = id }
func (d *PlantTask) SetTaskID(id int)         { d.TaskID = id }
func (d *TransplantTask) SetTaskID(id int)    { d.TaskID = id }

// NewDetail returns an empty detail for kind, or nil when the kind has none.
func NewDetail(kind constants.TaskKind) Detail {
	switch kind {
	case constants.KindSoilAmendment:
		return &SoilAmendmentTask{}
	case constants.KindPestControl:
		return &PestControlTask{}
	case constants.KindIrrigation:
		return &IrrigationTask{}
	case constants.KindScouting:
		return &ScoutingTask{}
	case constants.KindSoil:
		return &SoilTask{}
	case constants.KindFieldWork:
		return &FieldWorkTask{}
	case constants.KindHarvest:
		return &HarvestTask{}
	case constants.KindCleaning:
		return &CleaningTask{}
	case constants.KindPlant:
		return &PlantTask{}
	case constants.KindTransplant:
		return &TransplantTask{}
	}
	return nil
}

// DetailModels lists one value per detail table, for migrations.
func DetailModels() []interface{} {
	return []interface{}{
		&SoilAmendmentTask{},
		&PestControlTask{},
		&IrrigationTask{},
		&ScoutingTask{},
		&SoilTask{},
		&FieldWorkTask{},
		&HarvestTask{},
		&CleaningTask{},
		&PlantTask{},
		&TransplantTask{},
	}
}

// DecodeDetail unmarshals raw into the variant for kind. An empty payload
// yields an empty variant so typed tasks always own a row.
func DecodeDetail(kind constants.TaskKind, raw json.RawMessage) (Detail, error) {
	d := NewDetail(kind)
	if d == nil {
		if len(raw) > 0 && string(raw) != "null" {
			return nil, fmt.Errorf("task kind %s takes no detail", kind)
		}
		return nil, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		return d, nil
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decode %s detail: %w", kind, err)
	}
	return d, nil
}
