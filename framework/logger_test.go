package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerRecordsMessages(t *testing.T) {
	var logger CapturingLogger
	logger.Println("first", "message")
	logger.Printf("count is %d", 3)

	output := logger.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "first message", output[0].Message)
	assert.Equal(t, "count is 3", output[1].Message)
	assert.False(t, output[0].Time.IsZero())
}

func TestCapturingLoggerOutputIsACopy(t *testing.T) {
	var logger CapturingLogger
	logger.Println("before")
	output := logger.Output()
	logger.Println("after")

	require.Len(t, output, 1)
	assert.Len(t, logger.Output(), 2)
}

func TestCapturedOutputToString(t *testing.T) {
	var logger CapturingLogger
	logger.Println("a")
	logger.Println("b")

	s := logger.Output().ToString(">> ")
	assert.Regexp(t, `^>> \[[^\]]+\] a\n>> \[[^\]]+\] b$`, s)
}

func TestLoggerWithPrefix(t *testing.T) {
	var base CapturingLogger
	logger := LoggerWithPrefix(&base, "orders: ")
	logger.Printf("created %s", "ord-9")
	logger.Println("reset")

	output := base.Output()
	require.Len(t, output, 2)
	assert.Equal(t, "orders: created ord-9", output[0].Message)
	assert.Equal(t, "orders: reset", output[1].Message)
}
