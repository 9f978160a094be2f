// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormQuestion 选择题表
type GormQuestion struct {
	gorm.Model
	Text       string   `gorm:"not null"`
	Options    []string `gorm:"serializer:json;type:jsonb;not null"`
	Correct    int      `gorm:"not null"`
	Category   string   `gorm:"index"`
	Difficulty int      `gorm:"default:1"`
	Enabled    bool     `gorm:"default:true"`
}

// GormEstimate 估算题表
type GormEstimate struct {
	gorm.Model
	Text    string  `gorm:"not null"`
	Answer  float64 `gorm:"not null"`
	Unit    string
	Enabled bool `gorm:"default:true"`
}

// GormSpectrum 光谱卡表
type GormSpectrum struct {
	gorm.Model
	Left    string `gorm:"not null"`
	Right   string `gorm:"not null"`
	Enabled bool   `gorm:"default:true"`
}

// GormDilemma 二选一辩题表
type GormDilemma struct {
	gorm.Model
	OptionA string `gorm:"not null"`
	OptionB string `gorm:"not null"`
	Enabled bool   `gorm:"default:true"`
}

// GormWordPair 卧底词对表
type GormWordPair struct {
	gorm.Model
	Common   string `gorm:"not null"`
	Decoy    string `gorm:"not null"`
	Category string `gorm:"index"`
	Enabled  bool   `gorm:"default:true"`
}

// GormCipher 解密短语表
type GormCipher struct {
	gorm.Model
	Plain   string `gorm:"not null"`
	Hint    string
	Enabled bool `gorm:"default:true"`
}

// GormDrawWord 你画我猜词表
type GormDrawWord struct {
	gorm.Model
	Word    string `gorm:"uniqueIndex;not null"`
	Enabled bool   `gorm:"default:true"`
}

// GormPuzzle 填词谜面表
type GormPuzzle struct {
	gorm.Model
	Category string `gorm:"not null"`
	Answer   string `gorm:"not null"`
	Enabled  bool   `gorm:"default:true"`
}

// GormSurvey 调查榜表，词条整块存 jsonb
type GormSurvey struct {
	gorm.Model
	Question string         `gorm:"not null"`
	Answers  []SurveyAnswer `gorm:"serializer:json;type:jsonb;not null"`
	Enabled  bool           `gorm:"default:true"`
}

// GormBoardCategory 指答板分类表，整列格子存 jsonb
type GormBoardCategory struct {
	gorm.Model
	Name    string      `gorm:"uniqueIndex;not null"`
	Clues   []BoardClue `gorm:"serializer:json;type:jsonb;not null"`
	Enabled bool        `gorm:"default:true"`
}
