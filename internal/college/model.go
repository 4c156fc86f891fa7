package college

import (
	"time"

	"github.com/uptrace/bun"
)

type College struct {
	bun.BaseModel `bun:"table:colleges,alias:c"`

	ID        int       `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type CreateRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
