package main

import (
	"encoding/binary"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/ettlab/ettcast/pkg/dataset/historical"
)

// Converts an ETT csv export (date,HUFL,HULL,MUFL,MULL,LUFL,LULL,OT) into the
// binary row format the mmap source reads.

func dumpIt(csvPath string, binFile *os.File) error {
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer func(csvFile *os.File) {
		_ = csvFile.Close()
	}(csvFile)

	reader := csv.NewReader(csvFile)

	// Skip header
	_, err = reader.Read()
	if err != nil {
		log.Fatal(err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		ts, err := time.Parse("2006-01-02 15:04:05", record[0])
		if err != nil {
			log.Fatal(err)
		}

		var fields [7]float64
		for i := range fields {
			fields[i], _ = strconv.ParseFloat(record[i+1], 64)
		}

		row := historical.BinaryRow{
			TimeStamp: ts.UTC().UnixNano(),
			Hufl:      fields[0],
			Hull:      fields[1],
			Mufl:      fields[2],
			Mull:      fields[3],
			Lufl:      fields[4],
			Lull:      fields[5],
			Ot:        fields[6],
		}
		if err := binary.Write(binFile, binary.LittleEndian, row); err != nil {
			log.Fatal(err)
		}
	}

	return nil
}

func main() {
	csvPath := flag.String("csv", "", "ETT csv file")
	outPath := flag.String("out", "", "output binary file")
	flag.Parse()

	if *csvPath == "" || *outPath == "" {
		slog.Error("csv and out are required")
		return
	}

	binFile, err := os.Create(*outPath)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		return
	}
	defer func(binFile *os.File) {
		_ = binFile.Close()
	}(binFile)

	if err := dumpIt(*csvPath, binFile); err != nil {
		_ = os.Remove(*outPath)
		slog.Error("failed to dump", "error", err)
		return
	}

	slog.Info("done", "file", *outPath)
}
