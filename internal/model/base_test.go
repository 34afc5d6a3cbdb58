package model

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestValidUUID(t *testing.T) {
	id := uuid.NewString()

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"canonical", id, true},
		{"empty", "", false},
		{"upper case", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", false},
		{"urn form", "urn:uuid:" + id, false},
		{"braces", "{" + id + "}", false},
		{"path traversal", "../../etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidUUID(tt.id); got != tt.want {
				t.Fatalf("ValidUUID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestUUIDBaseBeforeCreate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.AutoMigrate(&LearningPath{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	generated := &LearningPath{UserID: 1, CareerPath: "Data Scientist", TotalWeeks: 8, TotalHours: 80}
	if err := db.Create(generated).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if !ValidUUID(generated.ID) {
		t.Fatalf("generated id %q is not a canonical uuid", generated.ID)
	}

	bad := &LearningPath{UUIDBase: UUIDBase{ID: "../escape"}, UserID: 1, CareerPath: "x", TotalWeeks: 8, TotalHours: 80}
	if err := db.Create(bad).Error; !errors.Is(err, ErrInvalidUUID) {
		t.Fatalf("expected ErrInvalidUUID, got %v", err)
	}
}
