// Package postgres implements the PostgreSQL record store for the Stats Hub.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE COMPLETION RECORDS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create completion_records table
-- Version: 001

CREATE TABLE IF NOT EXISTS completion_records (
    record_id BIGSERIAL PRIMARY KEY,
    account_id CHAR(12) NOT NULL,
    puzzle_type VARCHAR(50) NOT NULL,
    difficulty VARCHAR(20) NOT NULL,
    time_taken INTEGER NOT NULL,
    hint_count INTEGER NOT NULL,
    completed_at TIMESTAMP WITH TIME ZONE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Constraints mirror the submission validator's bounds
    CONSTRAINT valid_account_id CHECK (account_id ~ '^[A-Z0-9]{12}$'),
    CONSTRAINT valid_puzzle_type CHECK (length(puzzle_type) BETWEEN 1 AND 50),
    CONSTRAINT valid_difficulty CHECK (length(difficulty) BETWEEN 1 AND 20),
    CONSTRAINT valid_time_taken CHECK (time_taken >= 0 AND time_taken <= 86400),
    CONSTRAINT valid_hint_count CHECK (hint_count >= 0 AND hint_count <= 100)
);

-- Per-account listings and stats scans
CREATE INDEX IF NOT EXISTS idx_records_account_id ON completion_records(account_id);
CREATE INDEX IF NOT EXISTS idx_records_account_completed ON completion_records(account_id, completed_at);

-- Daily bucketing over a trailing window
CREATE INDEX IF NOT EXISTS idx_records_completed_at ON completion_records(completed_at);
`

const migration001Down = `
DROP TABLE IF EXISTS completion_records;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE RANKING INDEXES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Indexes matching the canonical ranking order
-- Version: 002

-- Global leaderboard scans filter by type (and optionally difficulty) and
-- order by hints first, time second, record_id as the stable tiebreaker.
CREATE INDEX IF NOT EXISTS idx_records_ranking
    ON completion_records(puzzle_type, hint_count, time_taken, record_id);

CREATE INDEX IF NOT EXISTS idx_records_ranking_difficulty
    ON completion_records(puzzle_type, difficulty, hint_count, time_taken, record_id);
`

const migration002Down = `
DROP INDEX IF EXISTS idx_records_ranking;
DROP INDEX IF EXISTS idx_records_ranking_difficulty;
`
