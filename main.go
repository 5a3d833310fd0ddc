package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/roamly/roamly/internal/app"
	"github.com/roamly/roamly/internal/logger"
)

func main() {
	l := logger.New(logrus.StandardLogger())

	var exitCode int

	if err := app.Run(l); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
