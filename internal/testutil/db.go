// Package testutil 测试用的内存数据库和数据构造函数
package testutil

import (
	"encoding/json"
	"testing"

	"coursehub_backend/internal/model"
	"coursehub_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的内存库；只开一个连接，否则每个连接各自是一个空库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateGroup(t *testing.T, db *gorm.DB, ownerID uint) *model.Group {
	t.Helper()
	g := &model.Group{Name: "Finance Academy", Description: "base description", OwnerID: ownerID}
	mustCreate(t, db, g)
	return g
}

func CreateCourse(t *testing.T, db *gorm.DB, groupID string, published bool) *model.Course {
	t.Helper()
	c := &model.Course{
		GroupID:       groupID,
		Name:          "Risk Basics",
		Description:   "base course description",
		Privacy:       model.PrivacyPublic,
		Published:     published,
		Level:         model.LevelBeginner,
		LearnOutcomes: model.LearnOutcomes{"Understand risk"},
	}
	mustCreate(t, db, c)
	return c
}

func CreateModule(t *testing.T, db *gorm.DB, courseID string, order int) *model.CourseModule {
	t.Helper()
	m := &model.CourseModule{CourseID: courseID, Title: "Module", Order: order}
	mustCreate(t, db, m)
	return m
}

// CreateSection payload 为 nil 时不写 blockPayload
func CreateSection(t *testing.T, db *gorm.DB, moduleID string, typ model.SectionType, order int, payload interface{}) *model.Section {
	t.Helper()
	s := &model.Section{ModuleID: moduleID, Name: "Section", Type: typ, Order: order}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		s.BlockPayload = b
	}
	mustCreate(t, db, s)
	return s
}

// Course 一个已发布课程：modules 个模块，每个模块 perModule 个 concept 章节
type Course struct {
	Group    *model.Group
	Course   *model.Course
	Modules  []*model.CourseModule
	Sections []*model.Section
}

func SeedCourse(t *testing.T, db *gorm.DB, ownerID uint, modules, perModule int) *Course {
	t.Helper()
	g := CreateGroup(t, db, ownerID)
	c := CreateCourse(t, db, g.ID, true)
	out := &Course{Group: g, Course: c}
	for i := 0; i < modules; i++ {
		m := CreateModule(t, db, c.ID, i)
		out.Modules = append(out.Modules, m)
		for j := 0; j < perModule; j++ {
			out.Sections = append(out.Sections, CreateSection(t, db, m.ID, model.SectionConcept, j, nil))
		}
	}
	return out
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}
