package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sqlfleet/pkg/model"
)

// RunRecord is the warehouse row for one finished assessment run. The full
// report set is stored as JSON; each run is an independent snapshot.
type RunRecord struct {
	ID         string    `gorm:"primaryKey;size:32"`
	StartedAt  time.Time `gorm:"index"`
	FinishedAt time.Time
	Targets    int
	Failed     int
	Instances  int
	Payload    string `gorm:"type:longtext"`
}

// Init connects to MySQL and runs migrations.
// Env:
//
//	MYSQL_DSN or MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASS, MYSQL_DB
func Init() (*gorm.DB, error) {
	host := getenv("MYSQL_HOST", "127.0.0.1")
	port := getenv("MYSQL_PORT", "3306")
	user := getenv("MYSQL_USER", "root")
	pass := getenv("MYSQL_PASS", "")
	dbname := getenv("MYSQL_DB", "sqlfleet")

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, pass, host, port, dbname)
	}
	return InitDSN(dsn, user, pass, host, port, dbname)
}

// InitDSN opens the warehouse at an explicit DSN, creating the database on
// first use when the account allows it.
func InitDSN(dsn, user, pass, host, port, dbname string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		if strings.Contains(err.Error(), "Unknown database") && dbname != "" {
			if cerr := createDatabase(user, pass, host, port, dbname); cerr != nil {
				return nil, fmt.Errorf("create database failed: %w", cerr)
			}
			db, err = gorm.Open(mysql.Open(dsn), cfg)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	sqlDB, _ := db.DB()
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	if err := db.AutoMigrate(&model.User{}, &RunRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}

// SaveRun persists one finished run to the warehouse.
func SaveRun(db *gorm.DB, run model.AssessmentRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}
	record := RunRecord{
		ID:         run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Targets:    run.Targets,
		Failed:     run.Failed,
		Instances:  len(run.Reports),
		Payload:    string(payload),
	}
	return db.Save(&record).Error
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func createDatabase(user, pass, host, port, dbname string) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", user, pass, host, port)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4", dbname))
	return err
}
