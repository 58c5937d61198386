package main

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseDBLogsThroughLogger(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	log, hook := test.NewNullLogger()
	closeDB(log, db)

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, hook.Entries, 2)
	assert.Equal(t, "Closing database connection...", hook.Entries[0].Message)
	assert.Equal(t, "Database connection closed", hook.LastEntry().Message)
}

func TestCloseDBLogsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose().WillReturnError(errors.New("connection reset"))

	log, hook := test.NewNullLogger()
	closeDB(log, db)

	require.NoError(t, mock.ExpectationsWereMet())
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Failed to close database", entry.Message)
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "connection reset")
}
