package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/file-analyzer/internal/common"
)

const menuText = `
==== FILE ANALYZER TOOL ====
1) Analyze Text File & Generate Report
2) Analyze CSV File
3) Scan Document for Identity Number
4) Search Keyword in Text File
5) Analyze Special Characters
6) Export All Analysis to Excel
7) Generate Final Summary Report
8) Exit`

// runMenu loops until the user exits or input ends. Operation errors are
// printed and the loop continues.
func (a *app) runMenu(ctx context.Context, in io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(in)
	// answers come back as typed; callers trim paths and choices
	ask := func(prompts ...string) ([]string, bool) {
		answers := make([]string, 0, len(prompts))
		for _, p := range prompts {
			fmt.Fprint(w, p)
			if !sc.Scan() {
				return nil, false
			}
			answers = append(answers, sc.Text())
		}
		return answers, true
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(w, menuText)
		choice, ok := ask("Enter your choice: ")
		if !ok {
			return sc.Err()
		}

		var err error
		switch strings.TrimSpace(choice[0]) {
		case "1":
			if v, ok := ask("Enter text file path: "); ok {
				err = a.runText(ctx, w, strings.TrimSpace(v[0]))
			}
		case "2":
			if v, ok := ask("Enter CSV file path: "); ok {
				err = a.runCSV(ctx, w, strings.TrimSpace(v[0]))
			}
		case "3":
			if v, ok := ask("Enter document path: "); ok {
				err = a.runScan(ctx, w, strings.TrimSpace(v[0]))
			}
		case "4":
			if v, ok := ask("Enter text file path: ", "Enter keyword: "); ok {
				err = a.runSearch(ctx, w, strings.TrimSpace(v[0]), v[1])
			}
		case "5":
			if v, ok := ask("Enter text file path: "); ok {
				err = a.runSpecial(ctx, w, strings.TrimSpace(v[0]))
			}
		case "6":
			err = a.runExport(ctx, w)
		case "7":
			err = a.runSummary(ctx, w)
		case "8":
			fmt.Fprintln(w, "Exiting... Goodbye!")
			return nil
		default:
			fmt.Fprintln(w, "Invalid choice! Try again")
			continue
		}
		if err != nil {
			fmt.Fprintln(w, common.UserMessage(err))
		}
	}
}
