package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/abelbrown/briefing/internal/controller"
	"github.com/abelbrown/briefing/internal/store"
)

const bookmarksUsage = `Usage:
  briefing bookmarks list            Print saved ids, one per line
  briefing bookmarks export [-o f]   Write saved ids as a JSON array
  briefing bookmarks clear           Remove every saved id
  briefing bookmarks import <file>   Merge ids from a JSON array file
`

func runBookmarks() int {
	fs := flag.NewFlagSet("bookmarks", flag.ExitOnError)
	configPath := configFlag(fs)
	out := fs.String("o", "", "Output file for export (default: stdout)")
	fs.Usage = func() { fmt.Fprint(os.Stderr, bookmarksUsage) }
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return errorf("%v", err)
	}
	st, err := openStore(cfg)
	if err != nil {
		return errorf("%v", err)
	}
	defer st.Close()

	switch args[0] {
	case "list":
		err = listBookmarks(os.Stdout, st)
	case "export":
		w := io.Writer(os.Stdout)
		if *out != "" {
			f, ferr := os.Create(*out)
			if ferr != nil {
				return errorf("%v", ferr)
			}
			defer f.Close()
			w = f
		}
		err = exportBookmarks(w, st)
	case "clear":
		err = st.Save(nil)
	case "import":
		if len(args) < 2 {
			return errorf("import needs a file")
		}
		var added int
		added, err = importBookmarks(args[1], st)
		if err == nil {
			fmt.Printf("imported %d new bookmarks\n", added)
		}
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		return errorf("bookmarks %s: %v", args[0], err)
	}
	return 0
}

func listBookmarks(w io.Writer, st store.Store) error {
	ids, err := st.Load()
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	return nil
}

func exportBookmarks(w io.Writer, st store.Store) error {
	ids, err := st.Load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ids)
}

// importBookmarks merges the ids in path into the store, keeping the
// existing order and appending new ids. Returns how many were new.
func importBookmarks(path string, st store.Store) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var incoming []string
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, fmt.Errorf("%s: want a JSON array of ids: %w", path, err)
	}

	existing, err := st.Load()
	if err != nil {
		return 0, err
	}
	set := controller.NewIDSet(existing...)
	before := set.Len()
	for _, id := range incoming {
		if id != "" {
			set.Add(id)
		}
	}
	if err := st.Save(set.IDs()); err != nil {
		return 0, err
	}
	return set.Len() - before, nil
}
