package service

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"contenthub/app/config"
	"contenthub/app/models"
	"contenthub/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(f func()) string {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = oldStdout
	return <-done
}

func mockStdin(input string, f func()) {
	oldStdin := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r

	// Write input in a goroutine to avoid blocking
	go func() {
		w.Write([]byte(input))
		w.Close()
	}()

	f()

	os.Stdin = oldStdin
}

func setupTestDB(t *testing.T) string {
	tmpDir := t.TempDir()
	oldPath, oldBackups := dbPath, backupDir
	dbPath = filepath.Join(tmpDir, "test.db")
	backupDir = filepath.Join(tmpDir, "backups")
	t.Cleanup(func() {
		dbPath, backupDir = oldPath, oldBackups
	})
	return tmpDir
}

// seedDB writes one post with a comment into the database at dbPath.
func seedDB(t *testing.T) {
	t.Helper()
	store, err := repositories.NewStore(dbPath)
	require.NoError(t, err)
	set := store.Set()
	ctx := context.Background()
	post := &models.Post{Title: "Backed up", CreatorID: "u1"}
	require.NoError(t, set.Posts.Create(ctx, post))
	require.NoError(t, set.Comments.Create(ctx, &models.Comment{PostID: post.ID, UserID: "u2", Text: "hi"}))
	require.NoError(t, store.Close())
}

func TestHandleCommand(t *testing.T) {
	setupTestDB(t)

	tests := []struct {
		name           string
		driver         string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{
			name:           "no arguments",
			args:           []string{},
			expectedOutput: "Usage: contenthub db\n\nCommands:",
			expectedExit:   1,
		},
		{
			name:           "help command",
			args:           []string{"help"},
			expectedOutput: "Usage: contenthub db\n\nCommands:",
		},
		{
			name:           "unknown command",
			args:           []string{"unknown"},
			expectedOutput: "Unknown db command: unknown",
			expectedExit:   1,
		},
		{
			name:           "restore without file",
			args:           []string{"restore"},
			expectedOutput: "Error: backup file path required for restore",
			expectedExit:   1,
		},
		{
			name:           "mongo store",
			driver:         config.DriverMongo,
			args:           []string{"backup"},
			expectedOutput: "db commands only apply to the badger store",
			expectedExit:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exitCode int
			oldOsExit := osExit
			defer func() { osExit = oldOsExit }()
			osExit = func(code int) {
				exitCode = code
				panic("exit")
			}

			driver := tt.driver
			if driver == "" {
				driver = config.DriverBadger
			}
			output := captureOutput(func() {
				defer func() {
					if r := recover(); r != nil {
						if r != "exit" {
							panic(r)
						}
					}
				}()
				HandleCommand(config.Config{StoreDriver: driver}, tt.args)
			})

			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestHandleCommandUsesConfiguredPath(t *testing.T) {
	tmpDir := setupTestDB(t)
	configured := filepath.Join(tmpDir, "configured")

	output := captureOutput(func() {
		code := HandleCommand(config.Config{StoreDriver: config.DriverBadger, BadgerPath: configured}, []string{"init"})
		assert.Equal(t, 0, code)
	})

	assert.Contains(t, output, "Database initialized successfully")
	assert.DirExists(t, configured)
}

func TestInitDb(t *testing.T) {
	setupTestDB(t)

	t.Run("initialize new database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb()
		})

		assert.Contains(t, output, "Database initialized successfully")
		assert.DirExists(t, dbPath)
	})

	t.Run("initialize existing database", func(t *testing.T) {
		output := captureOutput(func() {
			initDb()
		})

		assert.Contains(t, output, "Database already exists")
	})
}

func TestClean(t *testing.T) {
	setupTestDB(t)

	t.Run("clean non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			clean()
		})

		assert.Contains(t, output, "Database is already clean")
	})

	t.Run("clean existing database - cancelled", func(t *testing.T) {
		captureOutput(initDb)
		require.DirExists(t, dbPath)

		var output string
		mockStdin("n\n", func() {
			output = captureOutput(clean)
		})

		assert.Contains(t, output, "Operation cancelled")
		assert.DirExists(t, dbPath)
	})

	t.Run("clean existing database - confirmed", func(t *testing.T) {
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(clean)
		})

		assert.Contains(t, output, "Database cleaned successfully")
		assert.NoDirExists(t, dbPath)
	})
}

func TestBackupAndRestore(t *testing.T) {
	tmpDir := setupTestDB(t)

	t.Run("backup non-existent database", func(t *testing.T) {
		output := captureOutput(func() {
			backup()
		})

		assert.Contains(t, output, "No database exists to backup")
	})

	t.Run("restore non-existent backup", func(t *testing.T) {
		output := captureOutput(func() {
			assert.Equal(t, 1, restore("nonexistent.db"))
		})

		assert.Contains(t, output, "Backup file does not exist")
	})

	t.Run("restore empty backup", func(t *testing.T) {
		empty := filepath.Join(tmpDir, "empty.db")
		require.NoError(t, os.WriteFile(empty, nil, 0644))

		output := captureOutput(func() {
			assert.Equal(t, 1, restore(empty))
		})

		assert.Contains(t, output, "Backup file is empty")
	})

	seedDB(t)

	var file string
	output := captureOutput(func() {
		file = backup()
	})
	require.NotEmpty(t, file)
	assert.Contains(t, output, "Database backed up successfully")
	assert.FileExists(t, file)

	t.Run("restore with existing database - cancelled", func(t *testing.T) {
		var output string
		mockStdin("n\n", func() {
			output = captureOutput(func() {
				assert.Equal(t, 1, restore(file))
			})
		})

		assert.Contains(t, output, "Operation cancelled")
	})

	t.Run("restore with existing database - confirmed", func(t *testing.T) {
		var output string
		mockStdin("y\n", func() {
			output = captureOutput(func() {
				assert.Equal(t, 0, restore(file))
			})
		})
		assert.Contains(t, output, "Database restored successfully")

		output = captureOutput(func() {
			assert.Equal(t, 0, stats())
		})
		assert.Regexp(t, `posts\s+1`, output)
		assert.Regexp(t, `comments\s+1`, output)
	})
}

func TestStatsWithoutDatabase(t *testing.T) {
	setupTestDB(t)

	output := captureOutput(func() {
		assert.Equal(t, 1, stats())
	})
	assert.Contains(t, output, "No database exists")
}
