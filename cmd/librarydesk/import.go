package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/librarydesk/librarydesk/internal/core/domain"
	mongorepo "github.com/librarydesk/librarydesk/internal/infrastructure/db/mongo"
)

// bookRecord is one entry of an import file.
type bookRecord struct {
	Title           string `json:"title"            validate:"required"`
	Author          string `json:"author"           validate:"required"`
	ISBN            string `json:"isbn"`
	Publisher       string `json:"publisher"`
	PublicationDate string `json:"publication_date"`
	Description     string `json:"description"`
	AvailableCopies int    `json:"available_copies" validate:"min=0,ltefield=TotalCopies"`
	TotalCopies     int    `json:"total_copies"     validate:"min=0"`
}

func newImportBooksCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import-books <file.json>",
		Short: "Append the books of a JSON file to the books table",
		Long: "Reads a JSON array of books (title, author, isbn, publisher, publication_date,\n" +
			"description, available_copies, total_copies) and inserts them in file order.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			books, err := readBooks(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			printBooks(out, books)
			if dryRun {
				fmt.Fprintf(out, "\n%d books valid, nothing written (dry run)\n", len(books))
				return nil
			}

			st, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer st.close(a)

			repo := mongorepo.NewBookRepository(st.db)
			if err := repo.EnsureIndexes(cmd.Context()); err != nil {
				return err
			}
			n, err := repo.InsertMany(cmd.Context(), books)
			if err != nil {
				return fmt.Errorf("imported %d of %d books: %w", n, len(books), err)
			}
			a.log.Info().Int("count", n).Str("file", args[0]).Msg("books imported")
			fmt.Fprintf(out, "\nImported %d books\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without writing")
	return cmd
}

// readBooks decodes and validates an import file. Every invalid entry is
// reported, numbered from 1.
func readBooks(r io.Reader) ([]domain.Book, error) {
	var records []bookRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no books in file")
	}

	v := validator.New()
	var errs []error
	books := make([]domain.Book, 0, len(records))
	for i, rec := range records {
		if err := v.Struct(rec); err != nil {
			errs = append(errs, fmt.Errorf("book %d: %w", i+1, err))
			continue
		}
		books = append(books, domain.Book{
			Title:           strings.TrimSpace(rec.Title),
			Author:          strings.TrimSpace(rec.Author),
			ISBN:            rec.ISBN,
			Publisher:       rec.Publisher,
			PublicationDate: rec.PublicationDate,
			Description:     rec.Description,
			AvailableCopies: rec.AvailableCopies,
			TotalCopies:     rec.TotalCopies,
		})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return books, nil
}

func printBooks(w io.Writer, books []domain.Book) {
	fmt.Fprintf(w, "%-40s %-25s %9s %5s\n", "Title", "Author", "Available", "Total")
	fmt.Fprintln(w, strings.Repeat("-", 82))
	for _, b := range books {
		fmt.Fprintf(w, "%-40s %-25s %9d %5d\n", truncate(b.Title, 40), truncate(b.Author, 25), b.AvailableCopies, b.TotalCopies)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
