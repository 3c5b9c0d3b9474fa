package main

import (
	"compress/gzip"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// sampleVoucher is one CODE,PERCENT,MAX_DISCOUNT,MIN_ORDER line.
type sampleVoucher struct {
	code        string
	percent     int
	maxDiscount int64
	minOrder    int64
}

// Sample voucher sets. TAKE10 appears in both files with different terms;
// the registry keeps the entry from the file listed first.
var sampleFiles = map[string][]sampleVoucher{
	"vouchers.gz": {
		{code: "TAKE10", percent: 10},
		{code: "SAVE20", percent: 20, maxDiscount: 50000},
		{code: "BIGSPEND15", percent: 15, minOrder: 200000},
		{code: "HALFOFF", percent: 50, maxDiscount: 100000, minOrder: 100000},
	},
	"vouchers_extra.gz": {
		{code: "TAKE10", percent: 5},
		{code: "WELCOME5", percent: 5},
		{code: "STAFF25", percent: 25, maxDiscount: 250000},
	},
}

// Generates gzipped sample voucher files for local development.
func main() {
	dataDir := flag.String("dir", "data/vouchers", "output directory")
	flag.Parse()

	// Create directory if it doesn't exist
	if err := os.MkdirAll(*dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	for filename, vouchers := range sampleFiles {
		filePath := filepath.Join(*dataDir, filename)

		if err := createVoucherFile(filePath, vouchers); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d vouchers\n", filePath, len(vouchers))
	}

	fmt.Println("\nSample voucher files created successfully!")
	fmt.Println("Set VOUCHER_FILES to a comma-separated list of these paths to load both.")
}

func createVoucherFile(filePath string, vouchers []sampleVoucher) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)

	if _, err := fmt.Fprintln(gzipWriter, "# CODE,PERCENT,MAX_DISCOUNT,MIN_ORDER"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, v := range vouchers {
		if _, err := fmt.Fprintf(gzipWriter, "%s,%d,%d,%d\n", v.code, v.percent, v.maxDiscount, v.minOrder); err != nil {
			return fmt.Errorf("failed to write voucher: %w", err)
		}
	}

	return gzipWriter.Close()
}
