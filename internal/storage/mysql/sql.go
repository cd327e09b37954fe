package mysql

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (property_id, source_id, author, rating, sentiment, lang, title, `text`, source, raw)\nVALUES "

const insertReviewsRow = "(?,?,?,?,?,?,?,?,?,?)"

// rating and sentiment are always replaced together; the rest keeps the old
// value when the new one is NULL.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  rating     = VALUES(rating),\n" +
	"  sentiment  = VALUES(sentiment),\n" +
	"  `text`     = VALUES(`text`),\n" +
	"  author     = COALESCE(VALUES(author), reviews.author),\n" +
	"  lang       = COALESCE(VALUES(lang), reviews.lang),\n" +
	"  title      = COALESCE(VALUES(title), reviews.title),\n" +
	"  source     = COALESCE(VALUES(source), reviews.source),\n" +
	"  raw        = COALESCE(VALUES(raw), reviews.raw)\n"

const insertMissSQL = `
INSERT INTO ingest_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listReviewsSelect = "SELECT id, property_id, source_id, author, rating, lang, title, `text`, source, created_at\n" +
	"FROM reviews\n" +
	"WHERE property_id = ?"

// Newest first; aligns with the (property_id, created_at, id) index.
const listReviewsOrder = "\nORDER BY created_at DESC, id DESC\nLIMIT ?"

const summarizeSQL = `
SELECT sentiment, COUNT(*), COALESCE(SUM(rating), 0)
FROM reviews
WHERE property_id = ?
GROUP BY sentiment
`
