package models

import "strings"

// Condition groups the free-text kondisi label.
type Condition string

const (
	ConditionGood    Condition = "good"
	ConditionDamaged Condition = "damaged"
	ConditionOther   Condition = "other"
)

// ParseCondition maps baik/rusak; anything else is other.
func ParseCondition(label string) Condition {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "baik", "good":
		return ConditionGood
	case "rusak", "damaged":
		return ConditionDamaged
	default:
		return ConditionOther
	}
}

// Item is an inventory record as served by the upstream API.
type Item struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Name      string `json:"nama_barang"`
	Category  string `json:"kategori"`
	Stock     int    `json:"stok"`
	Kondisi   string `json:"kondisi"`
	ImagePath string `json:"path_img,omitempty"`
}

func (it Item) Condition() Condition { return ParseCondition(it.Kondisi) }
