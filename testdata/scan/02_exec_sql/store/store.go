package store

import (
	"database/sql"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func (s *Store) Delete(id string) error {
	_, err := s.db.Exec("DELETE FROM items WHERE id = '" + id + "'")
	return err
}

func (s *Store) Count(table string) (int, error) {
	var n int
	err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n)
	return n, err
}

func (s *Store) Get(id string) (*sql.Rows, error) {
	return s.db.Query("SELECT * FROM items WHERE id = ?", id)
}
