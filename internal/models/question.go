package models

import (
	"gorm.io/gorm"
)

// Question 題庫中的一道題目，建立後不可修改
// CorrectIndex 不得隨題目一起廣播給客戶端，只能在玩家作答後揭露
type Question struct {
	gorm.Model
	Text         string   `json:"text"`
	Options      []string `gorm:"serializer:json" json:"options"` // 依序排列的選項
	CorrectIndex int      `json:"-"`
	Difficulty   int      `json:"difficulty"` // 1=easy 2=medium 3=hard
}
