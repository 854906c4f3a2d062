package main

import "eventmanagement/cmd/server/cmd"

// @title Event Management API
// @version 1.0
// @description Events, participant registration, invitations and feedback.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cmd.Execute()
}
