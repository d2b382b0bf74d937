package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, gormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, gormLogLevel("warn"))
	assert.Equal(t, gormlogger.Error, gormLogLevel("error"))
	assert.Equal(t, gormlogger.Silent, gormLogLevel("silent"))
	assert.Equal(t, gormlogger.Silent, gormLogLevel(""))
}
