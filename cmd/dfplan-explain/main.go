// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command dfplan-explain builds a small toy plan tree by hand, runs the
// predicate pushdown optimizer over it, and prints the tree before and
// after so the rewrite can be inspected directly.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/arrowplan/dfplan"
	"github.com/arrowplan/dfplan/dfschema"
	"github.com/arrowplan/dfplan/exprarena"
	"github.com/arrowplan/dfplan/planarena"
)

func main() {
	csv := flag.Bool("csv", false, "build the scan as a CSV source instead of parquet")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	logger := logrus.StandardLogger()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	lpArena := planarena.NewArena()
	exprArena := exprarena.NewArena()

	schema := dfschema.New(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: "amount", Type: arrow.PrimitiveTypes.Float64},
		arrow.Field{Name: "customer", Type: arrow.BinaryTypes.String},
	)

	format := planarena.ScanParquet
	if *csv {
		format = planarena.ScanCSV
	}
	scan := lpArena.Add(planarena.NewScan(format, planarena.ScanSource{ID: uuid.New(), Path: "orders"}, schema))

	amount := exprArena.Add(exprarena.Column{Name: "amount"})
	threshold := exprArena.Add(exprarena.Literal{Value: 100})
	predicate := exprArena.Add(exprarena.BinaryOp{Op: exprarena.OpGt, Left: amount, Right: threshold})
	sel := lpArena.Add(planarena.NewSelection(scan, predicate))

	customer := exprArena.Add(exprarena.Column{Name: "customer"})
	proj := lpArena.Add(planarena.NewProjection(sel, []exprarena.Handle{customer}, nil))

	fmt.Println("before:")
	printTree(lpArena, proj, 0)

	planner := dfplan.New(&dfplan.Config{AllowCSVPredicatePushdown: false, Logger: logger})
	newRoot, stats, err := planner.Optimize(proj, lpArena, exprArena)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\nafter:")
	printTree(lpArena, newRoot, 0)
	fmt.Printf("\nstats: %+v\n", stats)
}

func printTree(arena *planarena.Arena, h planarena.Handle, depth int) {
	node := arena.Get(h)
	fmt.Printf("%*s%s\n", depth*2, "", node.String())
	for _, in := range node.Inputs() {
		printTree(arena, in, depth+1)
	}
}
