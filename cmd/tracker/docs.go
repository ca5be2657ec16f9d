package main

// @title Inventory Tracker API
// @version 1.0
// @description Inventory tracker with a server-rendered page and a JSON API

// @contact.name API Support
// @contact.url http://github.com/tair/inventory-tracker

// @host localhost:8080
// @BasePath /

// @tag.name Inventory
// @tag.description Inventory item endpoints

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
