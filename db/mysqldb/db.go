package mysqldb

import (
	"database/sql"
	"fmt"

	db2 "github.com/seafarer/shipboard-be/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

type MySQLDB struct {
	*StreamDB
	*ForumDB
	*GroupDB
	*ReportDB
	*ModerationDB
	*UserDB
	*SettingsDB
	sess  db.Session
	sqlDB *sql.DB
}

type Config struct {
	User     string
	Password string
	Host     string
	Name     string
	MaxConns int
}

func GetDatabase(cfg *Config) (db2.Database, error) {
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			cfg.User, cfg.Password, cfg.Host, cfg.Name))
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.MaxConns)
	sqlDB.SetMaxOpenConns(cfg.MaxConns)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &MySQLDB{
		StreamDB:     getStreamDB(sess),
		ForumDB:      getForumDB(sess),
		GroupDB:      getGroupDB(sess),
		ReportDB:     getReportDB(sess),
		ModerationDB: getModerationDB(sess),
		UserDB:       getUserDB(sess),
		SettingsDB:   getSettingsDB(sess),
		sess:         sess,
		sqlDB:        sqlDB,
	}, nil
}

func (mdb *MySQLDB) GetSQLDB() *sql.DB {
	return mdb.sqlDB
}

func (mdb *MySQLDB) Close() error {
	return mdb.sess.Close()
}
