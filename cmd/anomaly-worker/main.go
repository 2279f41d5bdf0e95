package main

import "cashflow-sentinel/internal/bootstrap/worker"

func main() { worker.StartAnomalyWorker() }
