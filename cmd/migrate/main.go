package main

import (
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/lib/pq"
)

const createSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS recipes (
    id uuid PRIMARY KEY,
    created_at timestamptz NOT NULL DEFAULT now(),
    updated_at timestamptz NOT NULL DEFAULT now(),
    title varchar(255) NOT NULL,
    ingredients jsonb NOT NULL DEFAULT '[]',
    instructions jsonb NOT NULL DEFAULT '[]',
    embedding vector(1536),
    source_ref varchar(255)
);

CREATE INDEX IF NOT EXISTS idx_recipes_title ON recipes (title);
CREATE INDEX IF NOT EXISTS idx_recipes_embedding
    ON recipes USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
`

const dropSchema = `
DROP INDEX IF EXISTS idx_recipes_embedding;
DROP INDEX IF EXISTS idx_recipes_title;
DROP TABLE IF EXISTS recipes;
`

func main() {
	rollback := flag.Bool("rollback", false, "Drop the recipes schema")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	stmt := createSchema
	action := "migration"
	if *rollback {
		stmt = dropSchema
		action = "rollback"
	}

	if _, err := db.Exec(stmt); err != nil {
		log.Fatalf("failed to apply %s: %v", action, err)
	}

	log.Printf("%s applied successfully", action)
}
