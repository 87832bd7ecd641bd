// Command validate lints catalog and decision-tree files before they
// are shipped to a server. It runs the same load the server performs
// at startup and prints every schema violation.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"medintake/internal/catalog"
	"medintake/internal/model"
)

func main() {
	questionsPath := flag.String("questions", "", "path to questions.yaml (default: bundled catalog)")
	treePath := flag.String("tree", "", "path to decision_tree.yaml (default: bundled tree)")
	flag.Parse()

	var (
		cat *catalog.Catalog
		err error
	)
	if *questionsPath != "" || *treePath != "" {
		if *questionsPath == "" || *treePath == "" {
			log.Fatal("both -questions and -tree must be given")
		}
		cat, err = catalog.Load(*questionsPath, *treePath)
	} else {
		cat, err = catalog.LoadDefault()
	}

	if err != nil {
		var schemaErr *model.SchemaError
		if errors.As(err, &schemaErr) {
			fmt.Fprintln(os.Stderr, "catalog schema invalid:")
			for _, v := range schemaErr.Violations {
				fmt.Fprintf(os.Stderr, "  - %s\n", v)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	compulsory := 0
	for _, q := range cat.BaseQuestions() {
		if q.Compulsory {
			compulsory++
		}
	}
	followUps := 0
	keywords := 0
	for _, s := range cat.Symptoms() {
		followUps += len(s.FollowUps)
		keywords += len(s.Keywords)
	}

	fmt.Printf("catalog OK: %d base questions (%d compulsory), %d symptoms, %d keywords, %d follow-up references\n",
		len(cat.BaseQuestions()), compulsory, len(cat.Symptoms()), keywords, followUps)
}
