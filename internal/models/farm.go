package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        string    `gorm:"column:user_id;primaryKey;size:36" json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `gorm:"index" json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

type Role struct {
	ID      int    `gorm:"column:role_id;primaryKey;autoIncrement" json:"role_id"`
	Role    string `gorm:"not null" json:"role"`
	Deleted bool   `gorm:"not null;default:false" json:"deleted"`
}

func (Role) TableName() string { return "role" }

type UserFarm struct {
	UserID string          `gorm:"primaryKey;size:36" json:"user_id"`
	FarmID string          `gorm:"primaryKey;size:36" json:"farm_id"`
	RoleID int             `gorm:"not null" json:"role_id"`
	Status string          `gorm:"default:Active" json:"status"`
	Wage   *datatypes.JSON `json:"wage,omitempty"`
}

func (UserFarm) TableName() string { return "userFarm" }

type Location struct {
	ID      string `gorm:"column:location_id;primaryKey;size:36" json:"location_id"`
	FarmID  string `gorm:"size:36;not null;index" json:"farm_id"`
	Name    string `json:"name"`
	Deleted bool   `gorm:"not null;default:false" json:"deleted"`
}

func (Location) TableName() string { return "location" }

type PlantingManagementPlan struct {
	ID               int    `gorm:"column:planting_management_plan_id;primaryKey;autoIncrement" json:"planting_management_plan_id"`
	ManagementPlanID int    `json:"management_plan_id"`
	Notes            string `json:"notes"`
	Deleted          bool   `gorm:"not null;default:false" json:"deleted"`
}

func (PlantingManagementPlan) TableName() string { return "planting_management_plan" }

type ManagementTask struct {
	TaskID                   int `gorm:"primaryKey;autoIncrement:false"`
	PlantingManagementPlanID int `gorm:"primaryKey;autoIncrement:false"`
}

func (ManagementTask) TableName() string { return "management_tasks" }

type LocationTask struct {
	TaskID     int    `gorm:"primaryKey;autoIncrement:false"`
	LocationID string `gorm:"primaryKey;size:36"`
}

func (LocationTask) TableName() string { return "location_tasks" }
