// Package records provides the durable upload index: an append-only log of
// models.FileRecord persisted as a single pretty-printed JSON snapshot.
//
// # Overview
//
// The whole sequence is rewritten on every insert (temp file + rename), which
// costs O(n) per upload. Uploads are human-paced, so this is fine and keeps the
// on-disk format a plain JSON array that can be inspected by hand.
//
// A missing snapshot is an empty log. A snapshot that cannot be read or parsed
// is also treated as an empty log (and logged), so a damaged history never
// blocks new uploads.
//
// Typical Usage
//
//	repo, _ := records.Open(ctx, "telegram_cloud.json", logger)
//	_ = repo.Insert(ctx, rec)
//	newestFirst := repo.ReadAll(ctx)
package records
