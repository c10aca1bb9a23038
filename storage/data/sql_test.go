// Copyright 2021 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package data

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorse-io/slopeone/storage"
	"github.com/stretchr/testify/suite"
)

var (
	mySqlDSN    string
	postgresDSN string
)

func init() {
	// get environment variables
	mySqlDSN = os.Getenv("MYSQL_URI")
	postgresDSN = os.Getenv("POSTGRES_URI")
}

type SQLiteTestSuite struct {
	baseTestSuite
}

func (suite *SQLiteTestSuite) SetupSuite() {
	var err error
	path := filepath.Join(suite.T().TempDir(), "sqlite.db")
	suite.Database, err = Open(storage.SQLitePrefix+path, "slopeone_")
	suite.Require().NoError(err)
	err = suite.Database.Init()
	suite.Require().NoError(err)
}

func TestSQLite(t *testing.T) {
	suite.Run(t, new(SQLiteTestSuite))
}

type MySQLTestSuite struct {
	baseTestSuite
}

func (suite *MySQLTestSuite) SetupSuite() {
	// create database
	databaseComm, err := sql.Open("mysql", mySqlDSN[len(storage.MySQLPrefix):])
	suite.Require().NoError(err)
	const dbName = "slopeone_test"
	_, err = databaseComm.Exec("DROP DATABASE IF EXISTS " + dbName)
	suite.Require().NoError(err)
	_, err = databaseComm.Exec("CREATE DATABASE " + dbName)
	suite.Require().NoError(err)
	err = databaseComm.Close()
	suite.Require().NoError(err)
	// connect database
	suite.Database, err = Open(mySqlDSN+dbName, "")
	suite.Require().NoError(err)
	err = suite.Database.Init()
	suite.Require().NoError(err)
}

func TestMySQL(t *testing.T) {
	if mySqlDSN == "" {
		t.Skip("MYSQL_URI is not set")
	}
	suite.Run(t, new(MySQLTestSuite))
}

type PostgresTestSuite struct {
	baseTestSuite
}

func (suite *PostgresTestSuite) SetupSuite() {
	var err error
	suite.Database, err = Open(postgresDSN, "slopeone_")
	suite.Require().NoError(err)
	err = suite.Database.Init()
	suite.Require().NoError(err)
}

func TestPostgres(t *testing.T) {
	if postgresDSN == "" {
		t.Skip("POSTGRES_URI is not set")
	}
	suite.Run(t, new(PostgresTestSuite))
}
