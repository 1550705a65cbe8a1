package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/joho/godotenv/autoload"
	"github.com/jmoiron/sqlx"

	"gitlab.com/anderson.palacios/portfolio-service/internal/config"
	"gitlab.com/anderson.palacios/portfolio-service/internal/service"
)

// Usage example on the command line:
// > DBHOST=localhost DBUSER=anderson DBPWD=secret go run main.go -file=../../scripts/database.sql
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	sqlDB := service.CreateDatabase(cfg.Database)
	if sqlDB == nil {
		panic("database connection details are required for migrations")
	}
	db := sqlx.NewDb(sqlDB, "mysql")
	defer db.Close()

	filePtr := flag.String("file", "database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			builder = strings.Builder{}
		}
	}
}
