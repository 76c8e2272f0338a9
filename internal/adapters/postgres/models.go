package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Username     string    `gorm:"column:username"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	DisplayName  string    `gorm:"column:display_name"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type ticketModel struct {
	TicketID         uuid.UUID  `gorm:"column:ticket_id;type:uuid;default:gen_random_uuid();primaryKey"`
	ClientName       string     `gorm:"column:client_name"`
	ClientIdentifier string     `gorm:"column:client_identifier"`
	Motive           string     `gorm:"column:motive"`
	ClientType       string     `gorm:"column:client_type"`
	ServiceCategory  string     `gorm:"column:service_category"`
	IsPriority       bool       `gorm:"column:is_priority"`
	Status           string     `gorm:"column:status"`
	AssignedAgent    *uuid.UUID `gorm:"column:assigned_agent"`
	QueueSeq         int64      `gorm:"column:queue_seq;->"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (ticketModel) TableName() string { return "tickets" }

type agentStateModel struct {
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;primaryKey"`
	Status        string     `gorm:"column:status"`
	CurrentTicket *uuid.UUID `gorm:"column:current_ticket"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`
}

func (agentStateModel) TableName() string { return "agent_states" }
