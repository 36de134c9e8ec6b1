// Command benchstatfmt parses a `go test -bench` log and prints each
// benchmark's raw sample values in CSV format, one line per benchmark.
package main

import (
	"bufio"
	"log"
	"os"
	"strconv"

	"golang.org/x/perf/benchstat"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <bench.log>", os.Args[0])
	}
	path := os.Args[1]

	c := &benchstat.Collection{
		Alpha:     0.05,
		DeltaTest: benchstat.UTest,
		Order:     benchstat.ByName,
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := c.AddFile(path, f); err != nil {
		log.Fatal(err)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	var scratch []byte
	for k, v := range c.Metrics {
		w.WriteString(k.Benchmark)
		for _, v := range v.Values {
			w.WriteByte(',')
			scratch = strconv.AppendFloat(scratch[:0], v, 'f', 0, 64)
			w.Write(scratch)
		}
		w.WriteByte('\n')
	}
}
