package metric

// ObserveStoreOp counts one store read or write. op is "get" or "set".
func ObserveStoreOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(op, result).Inc()
}

// IncLoadFailures records a stored task list that was discarded at load.
func IncLoadFailures() {
	TaskLoadFailures.Inc()
}
