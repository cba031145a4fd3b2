package repository

// Schema returns the idempotent DDL for every table the stores use.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS candles (
			symbol   LowCardinality(String),
			interval LowCardinality(String),
			ts       DateTime64(3, 'UTC'),
			open     Float64,
			high     Float64,
			low      Float64,
			close    Float64,
			volume   Nullable(Float64),
			inserted DateTime64(3, 'UTC') DEFAULT now64(3)
		) ENGINE = ReplacingMergeTree(inserted)
		ORDER BY (symbol, interval, ts)`,
		`CREATE TABLE IF NOT EXISTS trade_ideas (
			event_id   String,
			symbol     LowCardinality(String),
			ts         DateTime64(3, 'UTC'),
			direction  LowCardinality(String),
			confidence UInt8,
			entry_low  Float64,
			entry_high Float64,
			stop_loss  Float64,
			tp1        Float64,
			tp2        Float64,
			rr         Float64,
			summary    String,
			payload    String
		) ENGINE = ReplacingMergeTree
		ORDER BY event_id`,
		`CREATE TABLE IF NOT EXISTS orderbook_alerts (
			event_id   String,
			symbol     LowCardinality(String),
			ts         DateTime64(3, 'UTC'),
			events     Array(LowCardinality(String)),
			major      UInt8,
			mid        Float64,
			spread_bps Float64,
			imbalance  Float64,
			signature  String,
			summary    String,
			payload    String
		) ENGINE = ReplacingMergeTree
		ORDER BY event_id`,
	}
}
