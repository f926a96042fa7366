package entity

import (
	"fmt"
	"time"
)

// CHConnection is a stored ClickHouse connection. Password is sealed with
// the configured secret key before it reaches sqlite; repositories hand
// back the plaintext on read.
type CHConnection struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name" validate:"required"`
	Host       string    `gorm:"type:text;not null" json:"host" validate:"required,hostname|ip"`
	Port       int       `gorm:"not null" json:"port" validate:"required,min=1,max=65535"`
	Protocol   string    `gorm:"type:text" json:"protocol" validate:"omitempty,oneof=native http"`
	Database   string    `gorm:"type:text" json:"database"`
	Username   string    `gorm:"type:text" json:"username" validate:"required"`
	Password   string    `gorm:"type:text" json:"password,omitempty"`
	ServerInfo string    `gorm:"type:text" json:"server_info"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Addr returns the host:port dial target for the native protocol.
func (c *CHConnection) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
