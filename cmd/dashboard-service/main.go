package main

import "cashflow-sentinel/internal/bootstrap/dashboard"

// @title Cashflow Sentinel API
// @version 1.0
// @description Финансовый дашборд малого бизнеса: поиск аномалий, алерты и семантическая память
// @host localhost:8080
// @BasePath /api/v1
func main() { dashboard.StartDashboardService() }
