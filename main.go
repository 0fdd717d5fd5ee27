package main

import (
	"Garage/CronJobs"
	"Garage/FiberConfig"
	"Garage/Models"
	"log"
)

func main() {
	Models.Connect()

	// Daily sweep that returns expired deferrals to the ready state
	followUps := CronJobs.NewDeferredFollowUp(Models.DB, false)
	if err := followUps.Start(); err != nil {
		log.Printf("Failed to start deferred follow-up scheduler: %v", err)
	}

	FiberConfig.FiberConfig()
}
