package service

// Database path used by the db maintenance commands. HandleCommand replaces
// it with the configured path.
var dbPath = "data/badger"

// Directory backups are written to.
var backupDir = "data/backups"
