package templates

// Dialect holds the outcome journal statements for one database driver.
// Identifiers are upper case so both drivers report the same column names.
type Dialect struct {
	CreateOutcomes       string
	InsertOutcome        string
	SelectRecentOutcomes string
}

const insertOutcome = `
INSERT INTO SUBMISSION_OUTCOMES
    (ATTEMPT_ID, OUTCOME, STATUS, STATUS_CODE, STYLE, DETAIL, JUDGED_AT, ELAPSED_MS)
VALUES
    (:ATTEMPT_ID, :OUTCOME, :STATUS, :STATUS_CODE, :STYLE, :DETAIL, :JUDGED_AT, :ELAPSED_MS)`

const outcomeColumns = `ATTEMPT_ID, OUTCOME, STATUS, STATUS_CODE, STYLE, DETAIL, JUDGED_AT, ELAPSED_MS`

var SQLite = Dialect{
	CreateOutcomes: `
CREATE TABLE IF NOT EXISTS SUBMISSION_OUTCOMES (
    ATTEMPT_ID  TEXT PRIMARY KEY,
    OUTCOME     TEXT NOT NULL,
    STATUS      TEXT DEFAULT '',
    STATUS_CODE INTEGER NOT NULL DEFAULT 0,
    STYLE       TEXT NOT NULL,
    DETAIL      TEXT DEFAULT '',
    JUDGED_AT   TIMESTAMP NOT NULL,
    ELAPSED_MS  INTEGER NOT NULL
)`,
	InsertOutcome: insertOutcome,
	SelectRecentOutcomes: `
SELECT ` + outcomeColumns + `
FROM SUBMISSION_OUTCOMES
ORDER BY JUDGED_AT DESC
LIMIT ?`,
}

// Oracle expects SUBMISSION_OUTCOMES to be provisioned with the schema, so
// there is no create statement.
var Oracle = Dialect{
	InsertOutcome: insertOutcome,
	SelectRecentOutcomes: `
SELECT ` + outcomeColumns + `
FROM SUBMISSION_OUTCOMES
ORDER BY JUDGED_AT DESC
FETCH FIRST ? ROWS ONLY`,
}

func For(driver string) (Dialect, bool) {
	switch driver {
	case "sqlite3":
		return SQLite, true
	case "godror":
		return Oracle, true
	default:
		return Dialect{}, false
	}
}
