package logger

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestSetLogLevel(t *testing.T) {
	RegisterTestingT(t)

	Expect(Named("jetstream")).NotTo(BeNil())
	previous := GetLoggerLevel()
	defer SetLogLevel(previous)

	SetLogLevel("warn")
	Expect(GetLoggerLevel()).To(Equal("warn"))

	// unknown levels leave the current level untouched
	SetLogLevel("chatty")
	Expect(GetLoggerLevel()).To(Equal("warn"))
}
