// persistence/gorm_source.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/socialoop/partyhost/models"
)

// GormSource 从 PostgreSQL 装载内容包
type GormSource struct {
	db *gorm.DB
}

// NewGormSource 建连、配置连接池并迁移内容表
func NewGormSource(host string, port int, user, password, dbname string) (*GormSource, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormSource{db: db}, nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormQuestion{},
		&models.GormEstimate{},
		&models.GormSpectrum{},
		&models.GormDilemma{},
		&models.GormWordPair{},
		&models.GormCipher{},
		&models.GormDrawWord{},
		&models.GormPuzzle{},
		&models.GormSurvey{},
		&models.GormBoardCategory{},
	)
}

// LoadPack 读出全部启用的内容行
func (s *GormSource) LoadPack() (*models.ContentPack, error) {
	pack := &models.ContentPack{}

	var questions []models.GormQuestion
	if err := s.db.Where("enabled = ?", true).Find(&questions).Error; err != nil {
		return nil, err
	}
	for _, q := range questions {
		pack.Questions = append(pack.Questions, models.Question{
			Text:       q.Text,
			Options:    q.Options,
			Correct:    q.Correct,
			Category:   q.Category,
			Difficulty: q.Difficulty,
		})
	}

	var estimates []models.GormEstimate
	if err := s.db.Where("enabled = ?", true).Find(&estimates).Error; err != nil {
		return nil, err
	}
	for _, e := range estimates {
		pack.Estimates = append(pack.Estimates, models.Estimate{Text: e.Text, Answer: e.Answer, Unit: e.Unit})
	}

	var spectrums []models.GormSpectrum
	if err := s.db.Where("enabled = ?", true).Find(&spectrums).Error; err != nil {
		return nil, err
	}
	for _, sp := range spectrums {
		pack.Spectrums = append(pack.Spectrums, models.Spectrum{Left: sp.Left, Right: sp.Right})
	}

	var dilemmas []models.GormDilemma
	if err := s.db.Where("enabled = ?", true).Find(&dilemmas).Error; err != nil {
		return nil, err
	}
	for _, d := range dilemmas {
		pack.Dilemmas = append(pack.Dilemmas, models.Dilemma{OptionA: d.OptionA, OptionB: d.OptionB})
	}

	var pairs []models.GormWordPair
	if err := s.db.Where("enabled = ?", true).Find(&pairs).Error; err != nil {
		return nil, err
	}
	for _, p := range pairs {
		pack.WordPairs = append(pack.WordPairs, models.WordPair{Common: p.Common, Decoy: p.Decoy, Category: p.Category})
	}

	var ciphers []models.GormCipher
	if err := s.db.Where("enabled = ?", true).Find(&ciphers).Error; err != nil {
		return nil, err
	}
	for _, c := range ciphers {
		pack.Ciphers = append(pack.Ciphers, models.Cipher{Plain: c.Plain, Hint: c.Hint})
	}

	var words []models.GormDrawWord
	if err := s.db.Where("enabled = ?", true).Find(&words).Error; err != nil {
		return nil, err
	}
	for _, w := range words {
		pack.DrawWords = append(pack.DrawWords, w.Word)
	}

	var puzzles []models.GormPuzzle
	if err := s.db.Where("enabled = ?", true).Find(&puzzles).Error; err != nil {
		return nil, err
	}
	for _, p := range puzzles {
		pack.Puzzles = append(pack.Puzzles, models.Puzzle{Category: p.Category, Answer: p.Answer})
	}

	var surveys []models.GormSurvey
	if err := s.db.Where("enabled = ?", true).Find(&surveys).Error; err != nil {
		return nil, err
	}
	for _, sv := range surveys {
		pack.Surveys = append(pack.Surveys, models.Survey{Question: sv.Question, Answers: sv.Answers})
	}

	var boards []models.GormBoardCategory
	if err := s.db.Where("enabled = ?", true).Find(&boards).Error; err != nil {
		return nil, err
	}
	for _, b := range boards {
		pack.Boards = append(pack.Boards, models.BoardCategory{Name: b.Name, Clues: b.Clues})
	}

	return pack, nil
}

// Close 关闭数据库连接
func (s *GormSource) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
