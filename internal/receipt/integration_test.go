package receipt_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/receipt-lens/internal/interpret"
	"github.com/zombor/receipt-lens/internal/receipt"
	"github.com/zombor/receipt-lens/internal/scanning"
)

var _ = Describe("Integration", func() {
	var (
		db          *receipt.BoltDB
		store       *receipt.LocalStorage
		storageDir  string
		ollama      *ghttp.Server
		scanner     scanning.Scanner
		api         *httptest.Server
		imageData   []byte
		transcript  string
		ollamaCalls int
	)

	BeforeEach(func() {
		tempDir := GinkgoT().TempDir()

		var err error
		db, err = receipt.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		storageDir = filepath.Join(tempDir, "receipts")
		store, err = receipt.NewLocalStorage(storageDir)
		Expect(err).NotTo(HaveOccurred())

		transcript = "GREEN GROCER MARKET\n03/20/2024\n2 Apples 3.00\nBread 4.50\nTAX 0.60\nTOTAL 8.10\nTHANK YOU"
		ollamaCalls = 0
		ollama = ghttp.NewServer()
		ollama.RouteToHandler(http.MethodPost, "/api/chat", func(w http.ResponseWriter, r *http.Request) {
			ollamaCalls++
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"message": map[string]string{"role": "assistant", "content": transcript},
				"done":    true,
			})
		})

		ollamaScanner, err := scanning.NewOllama(ollama.URL(), "llava", 5*time.Second)
		Expect(err).NotTo(HaveOccurred())
		scanner = scanning.NewRateLimited(ollamaScanner, 0, 1)

		service := receipt.NewService(db, scanner, store)
		api = httptest.NewServer(receipt.NewServer(service, receipt.BasicAuth{}).Handler())

		var buf bytes.Buffer
		Expect(png.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)))).To(Succeed())
		imageData = buf.Bytes()
	})

	AfterEach(func() {
		api.Close()
		ollama.Close()
		scanner.Close()
		db.Close()
	})

	scan := func() *receipt.Record {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "receipt.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(imageData)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		req, err := http.NewRequest(http.MethodPost, api.URL+"/api/receipts/scan", body)
		Expect(err).NotTo(HaveOccurred())
		req.Header.Set("Content-Type", writer.FormDataContentType())

		resp, err := http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var record receipt.Record
		Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
		return &record
	}

	It("scans, stores, renders and deletes a receipt", func() {
		record := scan()
		Expect(ollamaCalls).To(Equal(1))

		Expect(record.Title).To(Equal("GREEN GROCER MARKET"))
		Expect(record.Amount.StringFixed(2)).To(Equal("8.10"))
		Expect(record.Category).To(Equal(interpret.CategoryShopping))
		Expect(record.NeedsReview).To(BeFalse())
		Expect(record.Extracted.Items).To(HaveLen(2))
		Expect(record.Extracted.Items[0].Name).To(Equal("Apples"))
		Expect(record.Extracted.Items[0].Quantity).To(Equal(2))
		Expect(interpret.SumPrices(record.Extracted.Items).StringFixed(2)).To(Equal("8.10"))

		saved, err := db.GetRecord(record.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.Title).To(Equal(record.Title))

		resp, err := http.Get(api.URL + "/api/receipts/" + record.ID + "/file")
		Expect(err).NotTo(HaveOccurred())
		fileData, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(fileData).To(Equal(imageData))

		resp, err = http.Get(api.URL + "/api/receipts/" + record.ID + "/html")
		Expect(err).NotTo(HaveOccurred())
		markup, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(markup)).To(ContainSubstring("GREEN GROCER MARKET"))

		req, err := http.NewRequest(http.MethodDelete, api.URL+"/api/receipts/"+record.ID, nil)
		Expect(err).NotTo(HaveOccurred())
		resp, err = http.DefaultClient.Do(req)
		Expect(err).NotTo(HaveOccurred())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNoContent))

		_, err = store.Get(record.Filename)
		Expect(err).To(MatchError(receipt.ErrNotFound))
	})

	It("keeps scanned and generated receipts side by side", func() {
		scanned := scan()

		resp, err := http.Post(api.URL+"/api/receipts/generate", "application/json",
			bytes.NewBufferString(`{"amount": "42.00", "category": "travel", "label": "Harbor Hotel"}`))
		Expect(err).NotTo(HaveOccurred())
		var generated receipt.Record
		Expect(json.NewDecoder(resp.Body).Decode(&generated)).To(Succeed())
		resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		resp, err = http.Get(api.URL + "/api/receipts")
		Expect(err).NotTo(HaveOccurred())
		var records []*receipt.Record
		Expect(json.NewDecoder(resp.Body).Decode(&records)).To(Succeed())
		resp.Body.Close()

		Expect(records).To(HaveLen(2))
		ids := []string{records[0].ID, records[1].ID}
		Expect(ids).To(ConsistOf(scanned.ID, generated.ID))
		Expect(generated.Synthesized.Items).To(HaveLen(2))
		Expect(interpret.SumPrices(generated.Synthesized.Items).StringFixed(2)).To(Equal("42.00"))
	})

	When("the upload is not a readable image", func() {
		It("returns bad request without calling the provider", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			part, err := writer.CreateFormFile("file", "r.jpg")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write([]byte("this is not an image"))
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			resp, err := http.Post(api.URL+"/api/receipts/scan", writer.FormDataContentType(), body)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(ollamaCalls).To(BeZero())

			records, err := db.ListRecords()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())

			stored, err := os.ReadDir(storageDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeEmpty())
		})
	})

	When("the provider is down", func() {
		BeforeEach(func() {
			ollama.RouteToHandler(http.MethodPost, "/api/chat", ghttp.RespondWith(http.StatusServiceUnavailable, "loading model"))
		})

		It("returns service unavailable and stores nothing", func() {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			part, err := writer.CreateFormFile("file", "receipt.png")
			Expect(err).NotTo(HaveOccurred())
			_, err = part.Write(imageData)
			Expect(err).NotTo(HaveOccurred())
			Expect(writer.Close()).To(Succeed())

			resp, err := http.Post(api.URL+"/api/receipts/scan", writer.FormDataContentType(), body)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusServiceUnavailable))

			records, err := db.ListRecords()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
		})
	})
})
