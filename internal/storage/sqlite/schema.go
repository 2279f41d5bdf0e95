package sqlite

// initSchema инициализирует схему БД.
// Время хранится текстом фиксированной ширины в UTC, чтобы сравнение строк совпадало с сравнением времени
func (s *SQLiteStorage) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		last_anomaly_check TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL REFERENCES businesses(id),
		date TEXT NOT NULL,
		amount TEXT NOT NULL,
		type TEXT NOT NULL CHECK (type IN ('in', 'out')),
		category TEXT NOT NULL DEFAULT 'Lainnya',
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'completed',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS alerts (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL REFERENCES businesses(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		severity TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'new',
		amount TEXT,
		recommendation TEXT NOT NULL DEFAULT '',
		impact TEXT NOT NULL DEFAULT '',
		suggested_actions TEXT NOT NULL DEFAULT '[]',
		user_notes TEXT,
		date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_businesses_user_id ON businesses(user_id);
	CREATE INDEX IF NOT EXISTS idx_businesses_last_check ON businesses(last_anomaly_check);
	CREATE INDEX IF NOT EXISTS idx_transactions_business_date ON transactions(business_id, date);
	CREATE INDEX IF NOT EXISTS idx_alerts_business_title ON alerts(business_id, title, created_at);
	CREATE INDEX IF NOT EXISTS idx_alerts_business_date ON alerts(business_id, date);
	`

	_, err := s.DB.Exec(query)
	return err
}
