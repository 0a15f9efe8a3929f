package gradescope

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// sampleNotebook is a minimal nbformat v4 document: a login cell, two tagged
// student answers, one solution cell, and one untagged cell.
const sampleNotebook = `{
  "cells": [
    {
      "cell_type": "code",
      "source": ["ok.auth(inline=True)"],
      "metadata": {},
      "outputs": [
        {
          "output_type": "stream",
          "name": "stdout",
          "text": ["Successfully logged in as student@berkeley.edu\n"]
        }
      ]
    },
    {
      "cell_type": "markdown",
      "source": "My answer to question 1",
      "metadata": {"tags": ["written", "student", "q01"]}
    },
    {
      "cell_type": "code",
      "source": ["plot(df)"],
      "metadata": {"tags": ["written", "student", "q02a"]},
      "outputs": [
        {
          "output_type": "display_data",
          "data": {"image/png": "aGVsbG8=", "text/plain": ["<Figure>"]}
        }
      ]
    },
    {
      "cell_type": "markdown",
      "source": "The solution to question 1",
      "metadata": {"tags": ["written", "solution", "q01"]}
    },
    {
      "cell_type": "markdown",
      "source": "Just some instructions",
      "metadata": {}
    }
  ],
  "metadata": {},
  "nbformat": 4,
  "nbformat_minor": 2
}`

// writeSampleNotebook writes the fixture to a temp file and returns its path.
func writeSampleNotebook(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hw1.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadNotebook(t *testing.T) {
	t.Parallel()

	nb, err := ReadNotebook(writeSampleNotebook(t))
	if err != nil {
		t.Fatalf("ReadNotebook() error = %v", err)
	}

	if got, want := len(nb.Cells), 5; got != want {
		t.Errorf("len(Cells) = %d, want %d", got, want)
	}
	if got, want := nb.NBFormat, 4; got != want {
		t.Errorf("NBFormat = %d, want %d", got, want)
	}
	// Array-of-lines source must be joined.
	if got, want := string(nb.Cells[0].Source), "ok.auth(inline=True)"; got != want {
		t.Errorf("Cells[0].Source = %q, want %q", got, want)
	}
	// Plain string source must survive as-is.
	if got, want := string(nb.Cells[1].Source), "My answer to question 1"; got != want {
		t.Errorf("Cells[1].Source = %q, want %q", got, want)
	}
}

func TestReadNotebook_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadNotebook(filepath.Join(t.TempDir(), "nope.ipynb"))
		if !errors.Is(err, ErrNotebookRead) {
			t.Errorf("error = %v, want ErrNotebookRead", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "bad.ipynb")
		if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := ReadNotebook(path)
		if !errors.Is(err, ErrNotebookRead) {
			t.Errorf("error = %v, want ErrNotebookRead", err)
		}
	})
}

func TestCell_HasTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cellTags []string
		check    []string
		want     bool
	}{
		{"all present", []string{"written", "student", "q01"}, []string{"written", "student"}, true},
		{"one missing", []string{"written", "q01"}, []string{"written", "student"}, false},
		{"no tags", nil, []string{"written", "student"}, false},
		{"empty check matches", []string{"q01"}, nil, true},
		{"solution set", []string{"written", "solution", "q03"}, []string{"written", "solution"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cell := &Cell{Metadata: CellMetadata{Tags: tt.cellTags}}
			if got := cell.HasTags(tt.check); got != tt.want {
				t.Errorf("HasTags(%v) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestCell_QuestionID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tags    []string
		want    string
		wantErr bool
	}{
		{"simple", []string{"written", "student", "q01"}, "q01", false},
		{"subpart", []string{"written", "student", "q02a"}, "q02a", false},
		{"first match wins", []string{"q01", "q02"}, "q01", false},
		{"substring match", []string{"written", "quiz3"}, "quiz3", false},
		{"banner tag", []string{"q_email"}, "q_email", false},
		{"no question tag", []string{"written", "student"}, "", true},
		{"no tags at all", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cell := &Cell{Metadata: CellMetadata{Tags: tt.tags}}
			got, err := cell.QuestionID()
			if tt.wantErr {
				if !errors.Is(err, ErrNoQuestionTag) {
					t.Fatalf("error = %v, want ErrNoQuestionTag", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("QuestionID() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("QuestionID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindStudentEmail(t *testing.T) {
	t.Parallel()

	t.Run("found and trimmed", func(t *testing.T) {
		t.Parallel()
		nb, err := ReadNotebook(writeSampleNotebook(t))
		if err != nil {
			t.Fatal(err)
		}
		email, err := findStudentEmail(nb)
		if err != nil {
			t.Fatalf("findStudentEmail() error = %v", err)
		}
		if want := "student@berkeley.edu"; email != want {
			t.Errorf("email = %q, want %q", email, want)
		}
	})

	t.Run("marker in text/plain data", func(t *testing.T) {
		t.Parallel()
		nb := &Notebook{Cells: []*Cell{{
			CellType: "code",
			Outputs: []*Output{{
				OutputType: "execute_result",
				Data:       map[string]Multiline{"text/plain": "Successfully logged in as other@example.com"},
			}},
		}}}
		email, err := findStudentEmail(nb)
		if err != nil {
			t.Fatalf("findStudentEmail() error = %v", err)
		}
		if want := "other@example.com"; email != want {
			t.Errorf("email = %q, want %q", email, want)
		}
	})

	t.Run("missing marker", func(t *testing.T) {
		t.Parallel()
		nb := &Notebook{Cells: []*Cell{{CellType: "markdown"}}}
		if _, err := findStudentEmail(nb); !errors.Is(err, ErrEmailNotFound) {
			t.Errorf("error = %v, want ErrEmailNotFound", err)
		}
	})
}

func TestFilterForExport(t *testing.T) {
	t.Parallel()

	load := func(t *testing.T) *Notebook {
		t.Helper()
		nb, err := ReadNotebook(writeSampleNotebook(t))
		if err != nil {
			t.Fatal(err)
		}
		return nb
	}

	t.Run("student cells with banner", func(t *testing.T) {
		t.Parallel()
		nb, err := filterForExport(load(t), StudentTags, false)
		if err != nil {
			t.Fatalf("filterForExport() error = %v", err)
		}

		// banner + q01 + q02a
		if got, want := len(nb.Cells), 3; got != want {
			t.Fatalf("len(Cells) = %d, want %d", got, want)
		}
		if got, want := string(nb.Cells[0].Source), "# student@berkeley.edu"; got != want {
			t.Errorf("banner source = %q, want %q", got, want)
		}
		if id, _ := nb.Cells[0].QuestionID(); id != "q_email" {
			t.Errorf("banner question ID = %q, want q_email", id)
		}
		// Code cell source replaced by the placeholder; outputs kept.
		if got, want := string(nb.Cells[2].Source), codePlaceholder; got != want {
			t.Errorf("code source = %q, want %q", got, want)
		}
		if len(nb.Cells[2].Outputs) == 0 {
			t.Error("code cell outputs were dropped")
		}
	})

	t.Run("solution cells", func(t *testing.T) {
		t.Parallel()
		nb, err := filterForExport(load(t), SolutionTags, false)
		if err != nil {
			t.Fatalf("filterForExport() error = %v", err)
		}
		if got, want := len(nb.Cells), 2; got != want { // banner + q01 solution
			t.Fatalf("len(Cells) = %d, want %d", got, want)
		}
		if got, want := string(nb.Cells[1].Source), "The solution to question 1"; got != want {
			t.Errorf("solution source = %q, want %q", got, want)
		}
	})

	t.Run("no banner", func(t *testing.T) {
		t.Parallel()
		nb, err := filterForExport(load(t), StudentTags, true)
		if err != nil {
			t.Fatalf("filterForExport() error = %v", err)
		}
		if got, want := len(nb.Cells), 2; got != want {
			t.Fatalf("len(Cells) = %d, want %d", got, want)
		}
		for _, cell := range nb.Cells {
			if cell.HasTags([]string{bannerTag}) {
				t.Error("banner cell present despite noBanner")
			}
		}
	})

	t.Run("missing email is fatal", func(t *testing.T) {
		t.Parallel()
		nb := &Notebook{Cells: []*Cell{{
			CellType: "markdown",
			Source:   "answer",
			Metadata: CellMetadata{Tags: []string{"written", "student", "q01"}},
		}}}
		if _, err := filterForExport(nb, StudentTags, false); !errors.Is(err, ErrEmailNotFound) {
			t.Errorf("error = %v, want ErrEmailNotFound", err)
		}
	})
}

func TestQuestionIDs(t *testing.T) {
	t.Parallel()

	cells := []*Cell{
		{Metadata: CellMetadata{Tags: []string{bannerTag}}},
		{Metadata: CellMetadata{Tags: []string{"written", "student", "q01"}}},
		{Metadata: CellMetadata{Tags: []string{"written", "student", "q02a"}}},
	}
	ids, err := questionIDs(cells)
	if err != nil {
		t.Fatalf("questionIDs() error = %v", err)
	}
	want := []string{"q_email", "q01", "q02a"}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}

	cells = append(cells, &Cell{Metadata: CellMetadata{Tags: []string{"written"}}})
	if _, err := questionIDs(cells); !errors.Is(err, ErrNoQuestionTag) {
		t.Errorf("error = %v, want ErrNoQuestionTag", err)
	}
}

func TestMultiline_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain string", `"hello"`, "hello", false},
		{"array of lines", `["line 1\n", "line 2"]`, "line 1\nline 2", false},
		{"empty array", `[]`, "", false},
		{"number", `42`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m Multiline
			err := m.UnmarshalJSON([]byte(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(m) != tt.want {
				t.Errorf("Multiline = %q, want %q", string(m), tt.want)
			}
		})
	}
}
