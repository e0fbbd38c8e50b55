package service

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"

	"wardrobe-stylist/models"
)

//go:embed templates/lookbook.html
var lookbookTemplates embed.FS

var lookbookTemplate = template.Must(
	template.New("lookbook.html").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(lookbookTemplates, "templates/lookbook.html"),
)

type lookbookCard struct {
	Item  models.WardrobeItem
	Image template.URL
}

type lookbookGroup struct {
	Category models.Category
	Cards    []lookbookCard
}

type lookbookPick struct {
	models.CategoryPick
	Image template.URL
}

// LookbookService renders the wardrobe (and optionally a recommended outfit) as HTML and PDF
type LookbookService struct {
	wardrobe   WardrobeServiceInterface
	baseURL    string // Base URL the headless browser renders from (e.g., "http://localhost:8080")
	chromePath string
}

// NewLookbookService creates a new LookbookService
func NewLookbookService(wardrobe WardrobeServiceInterface, baseURL, chromePath string) *LookbookService {
	return &LookbookService{
		wardrobe:   wardrobe,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
	}
}

// RenderHTML renders the lookbook. When tags is non-empty the first page is the recommended outfit.
func (s *LookbookService) RenderHTML(ctx context.Context, tags []string) (string, error) {
	wardrobe, err := s.wardrobe.ListWardrobe(ctx, "")
	if err != nil {
		return "", err
	}

	data := struct {
		Title  string
		Outfit *models.OutfitRecommendation
		Picks  []lookbookPick
		Groups []lookbookGroup
	}{Title: "Virtual Wardrobe"}

	if len(tags) > 0 {
		rec, err := s.wardrobe.Recommend(ctx, models.RecommendRequest{Tags: tags})
		if err != nil {
			return "", err
		}
		data.Outfit = rec.Outfit
		for _, p := range rec.Outfit.Picks {
			pick := lookbookPick{CategoryPick: p}
			if p.Found {
				pick.Image = s.thumbnailURI(ctx, p.Item.ID)
			}
			data.Picks = append(data.Picks, pick)
		}
	}

	for _, g := range wardrobe.Groups {
		group := lookbookGroup{Category: g.Category}
		for _, item := range g.Items {
			group.Cards = append(group.Cards, lookbookCard{Item: item, Image: s.thumbnailURI(ctx, item.ID)})
		}
		data.Groups = append(data.Groups, group)
	}

	var buf bytes.Buffer
	if err := lookbookTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// thumbnailURI inlines the item thumbnail so the page renders without further requests
func (s *LookbookService) thumbnailURI(ctx context.Context, id string) template.URL {
	data, err := s.wardrobe.ItemImage(ctx, id, SizeThumb)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to load image for item %s: %v", id, err)
		return ""
	}
	return template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data))
}

// detectChromePath checks the configured path first, then common installation paths
func (s *LookbookService) detectChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}
	for _, path := range []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// GeneratePDF prints the lookbook render endpoint to an A4 PDF using headless Chrome
func (s *LookbookService) GeneratePDF(ctx context.Context, tags []string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox) // required in containers
	if chromePath := s.detectChromePath(); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := s.baseURL + "/wardrobe/lookbook/render"
	if len(tags) > 0 {
		renderURL += "?" + url.Values{"tags": {strings.Join(tags, ",")}}.Encode()
	}

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // 210mm x 297mm at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).   // 210mm in inches
				WithPaperHeight(11.69). // 297mm in inches
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("📄 Lookbook PDF generated (%d bytes)", len(pdfBuf))
	return pdfBuf, nil
}
