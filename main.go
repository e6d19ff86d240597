package main

import (
	logger "github.com/Easy-Infra-Ltd/easy-logger"

	"github.com/Easy-Infra-Ltd/easy-markup-guard/src/cli"
)

func main() {
	log := logger.CreateLoggerFromEnv(nil, "blue").With("process", "easymarkupguard")
	cli.Execute(log)
}
