/*
heapdump prints the pages and tuples of a heap file.

	heapdump -file emp.dat -schema id:int,name:string [-pages N]
	heapdump -file emp.dat -schema id:int,name:string -encode emp.csv
	heapdump -file emp.dat -schema id:int,dept:string,salary:int -agg avg -agg-field 2 -group 1

heap file carries no schema, so it has to be given with -schema.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sigma65535/simple-db-hw-2021/am"
	"github.com/sigma65535/simple-db-hw-2021/execution"
	"github.com/sigma65535/simple-db-hw-2021/logging"
	"github.com/sigma65535/simple-db-hw-2021/storage/buffer"
	"github.com/sigma65535/simple-db-hw-2021/storage/disk"
	"github.com/sigma65535/simple-db-hw-2021/storage/page"
	"github.com/sigma65535/simple-db-hw-2021/storage/tuple"
	"github.com/sigma65535/simple-db-hw-2021/transaction"
	"github.com/sigma65535/simple-db-hw-2021/transaction/txid"
)

type config struct {
	file      string
	schema    string
	pages     int
	encode    string
	agg       string
	aggField  int
	group     int
	capacity  int
	replacer  string
	logLevel  string
	logFormat string
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED")).
			Bold(true).
			Padding(0, 1)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#06B6D4")).
			Bold(true)
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)
)

func main() {
	var cfg config
	flag.StringVar(&cfg.file, "file", "", "heap file path")
	flag.StringVar(&cfg.schema, "schema", "", "columns, e.g. id:int,name:string")
	flag.IntVar(&cfg.pages, "pages", 0, "the number of pages to dump (0 for all)")
	flag.StringVar(&cfg.encode, "encode", "", "csv file to encode into the heap file before dumping")
	flag.StringVar(&cfg.agg, "agg", "", "aggregate (sum, count, min, max, avg) instead of dumping pages")
	flag.IntVar(&cfg.aggField, "agg-field", 0, "column index to aggregate")
	flag.IntVar(&cfg.group, "group", execution.NoGrouping, "column index to group by (-1 for no grouping)")
	flag.IntVar(&cfg.capacity, "cache", buffer.DefaultCapacity, "the number of buffers")
	flag.StringVar(&cfg.replacer, "replacer", "clock", "buffer replacement policy (clock or lru)")
	flag.StringVar(&cfg.logLevel, "log-level", "WARN", "log level (DEBUG, INFO, WARN, ERROR)")
	flag.StringVar(&cfg.logFormat, "log-format", "text", "log format (text or json)")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("heapdump: ")+err.Error())
		os.Exit(1)
	}
}

func run(cfg config) error {
	if cfg.file == "" {
		return errors.New("-file is required")
	}
	if err := logging.Init(logging.Config{
		Level:  logging.LogLevel(strings.ToUpper(cfg.logLevel)),
		Format: cfg.logFormat,
	}); err != nil {
		return errors.Wrap(err, "logging.Init failed")
	}
	defer logging.Close()

	desc, err := parseSchema(cfg.schema)
	if err != nil {
		return errors.Wrap(err, "parseSchema failed")
	}
	if cfg.encode != "" {
		if err := encodeCSV(cfg.encode, cfg.file, desc); err != nil {
			return errors.Wrap(err, "encodeCSV failed")
		}
	}

	factory := buffer.NewClockSweep
	if cfg.replacer == "lru" {
		factory = buffer.NewLRU
	}
	dm := disk.NewManager()
	defer dm.Close()
	bm := buffer.NewManager(buffer.WithCapacity(cfg.capacity), buffer.WithReplacer(factory))
	hf, err := am.NewHeapFile(cfg.file, desc, dm, bm)
	if err != nil {
		return errors.Wrap(err, "am.NewHeapFile failed")
	}
	// the dump is a read-only transaction
	txID := txid.NewManager().AllocateNewTxID()
	defer bm.TransactionComplete(txID, true)

	if err := printSummary(dm, hf); err != nil {
		return errors.Wrap(err, "printSummary failed")
	}
	if cfg.agg != "" {
		return printAggregate(txID, hf, cfg)
	}
	return printPages(txID, bm, hf, cfg.pages)
}

// encodeCSV writes the rows of csv file as heap file, replacing its content
func encodeCSV(csvPath, heapPath string, desc *tuple.Desc) error {
	in, err := os.Open(csvPath)
	if err != nil {
		return errors.Wrap(err, "os.Open failed")
	}
	defer in.Close()
	tuples, err := am.ParseCSV(in, desc)
	if err != nil {
		return errors.Wrap(err, "am.ParseCSV failed")
	}
	out, err := os.Create(heapPath)
	if err != nil {
		return errors.Wrap(err, "os.Create failed")
	}
	n, err := am.Encode(out, desc, tuples)
	if err != nil {
		out.Close()
		return errors.Wrap(err, "am.Encode failed")
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "Close failed")
	}
	logging.Info("heap file encoded", "path", heapPath, "tuples", len(tuples), "pages", n)
	return nil
}

func printSummary(dm *disk.Manager, hf *am.HeapFile) error {
	size, err := dm.Size(hf.Path())
	if err != nil {
		return errors.Wrap(err, "dm.Size failed")
	}
	n, err := hf.NumPages()
	if err != nil {
		return errors.Wrap(err, "NumPages failed")
	}
	fmt.Println(titleStyle.Render("heap file " + hf.Path()))
	fmt.Printf("%s %s (%s bytes)\n", labelStyle.Render("size:"), humanize.Bytes(uint64(size)), humanize.Comma(size))
	fmt.Printf("%s %d\n", labelStyle.Render("pages:"), n)
	fmt.Printf("%s %s (%d bytes per tuple, %d slots per page)\n",
		labelStyle.Render("schema:"), hf.Desc(), hf.Desc().Size(), page.CalculateSlotCount(hf.Desc().Size()))
	if size%page.PageSize != 0 {
		fmt.Println(errorStyle.Render("warning: file size is not a multiple of page size, the last page is truncated"))
	}
	return nil
}

// printPages prints each page fetched through buffer manager
func printPages(txID txid.TxID, bm *buffer.Manager, hf *am.HeapFile, limit int) error {
	n, err := hf.NumPages()
	if err != nil {
		return errors.Wrap(err, "NumPages failed")
	}
	if limit > 0 && limit < n {
		n = limit
	}
	total := 0
	for num := 0; num < n; num++ {
		pageID := page.NewPageID(hf.ID(), page.PageNumber(num))
		p, err := bm.GetPage(txID, pageID, transaction.PermReadOnly)
		if err != nil {
			return errors.Wrapf(err, "GetPage of page %d failed", num)
		}
		hp := p.(*am.HeapPage)
		tuples := hp.Tuples()
		fmt.Println()
		fmt.Println(labelStyle.Render(fmt.Sprintf("page %d", num)) +
			mutedStyle.Render(fmt.Sprintf(" %d/%d slots used", len(tuples), hp.NumSlots())))
		if len(tuples) > 0 {
			fmt.Println(headerStyle.Render(header(hf.Desc(), true)))
		}
		for _, t := range tuples {
			tid, _ := t.Tid()
			fmt.Println(mutedStyle.Render(fmt.Sprintf("%-6d", tid.SlotIndex())) + t.String())
		}
		total += len(tuples)
		if err := bm.ReleasePage(pageID); err != nil {
			return errors.Wrap(err, "ReleasePage failed")
		}
	}
	fmt.Println()
	fmt.Printf("%s %s\n", labelStyle.Render("tuples:"), humanize.Comma(int64(total)))
	return nil
}

// printAggregate runs aggregate over sequential scan of the heap file
func printAggregate(txID txid.TxID, hf *am.HeapFile, cfg config) error {
	op, err := execution.ParseAggregateOp(cfg.agg)
	if err != nil {
		return errors.Wrap(err, "ParseAggregateOp failed")
	}
	scan, err := execution.NewSeqScan(txID, hf, "")
	if err != nil {
		return errors.Wrap(err, "NewSeqScan failed")
	}
	agg, err := execution.NewAggregate(scan, cfg.aggField, cfg.group, op)
	if err != nil {
		return errors.Wrap(err, "NewAggregate failed")
	}
	if err := agg.Open(); err != nil {
		return errors.Wrap(err, "Open failed")
	}
	defer agg.Close()

	fmt.Println()
	fmt.Println(headerStyle.Render(header(agg.Schema(), false)))
	return execution.ForEach(agg, func(t *tuple.Tuple) error {
		fmt.Println(t.String())
		return nil
	})
}

func header(desc *tuple.Desc, withSlot bool) string {
	var b strings.Builder
	if withSlot {
		b.WriteString(fmt.Sprintf("%-6s", "slot"))
	}
	for i, item := range desc.Items() {
		if i > 0 {
			b.WriteString("\t")
		}
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("f%d", i)
		}
		b.WriteString(name)
	}
	return b.String()
}
