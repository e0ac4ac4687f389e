package main

import (
	"log"

	"ExamSeatPlanner/internal/bootstrap"
	pkg "ExamSeatPlanner/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	if err := bootstrap.Loadenv(); err != nil {
		log.Fatalf("load env: %v", err)
	}
	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
