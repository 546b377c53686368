// Package export renders stored snapshots into a PDF progress report.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/jung-kurt/gofpdf"
	xdraw "golang.org/x/image/draw"

	"github.com/rewired-gh/neurodraw/internal/canvas"
	"github.com/rewired-gh/neurodraw/internal/feedback"
	"github.com/rewired-gh/neurodraw/internal/models"
	"github.com/rewired-gh/neurodraw/internal/trend"
)

// DefaultThumbnailWidth is used when a caller passes a non-positive width.
const DefaultThumbnailWidth = 480

const (
	margin       = 15.0 // mm
	contentWidth = 210.0 - 2*margin
	lineHeight   = 7.0
)

// Thumbnail scales img to the given pixel width, keeping its aspect ratio.
func Thumbnail(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	height := b.Dy() * width / max(b.Dx(), 1)
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// Build lays out one page per snapshot in the order given. An empty list
// yields a single placeholder page.
func Build(snapshots []models.Snapshot, thumbWidth int) (*gofpdf.Fpdf, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("NeuroDraw progress report", true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)

	if len(snapshots) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(contentWidth, lineHeight, "No drawings saved yet.", "", 1, "L", false, 0, "")
		return pdf, pdf.Error()
	}

	for i := range snapshots {
		if err := addPage(pdf, &snapshots[i], thumbWidth); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", snapshots[i].ID, err)
		}
	}
	return pdf, pdf.Error()
}

// Write renders the report to w.
func Write(w io.Writer, snapshots []models.Snapshot, thumbWidth int) error {
	pdf, err := Build(snapshots, thumbWidth)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// WriteFile renders the report to path.
func WriteFile(path string, snapshots []models.Snapshot, thumbWidth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := Write(f, snapshots, thumbWidth); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}

func addPage(pdf *gofpdf.Fpdf, s *models.Snapshot, thumbWidth int) error {
	img, err := canvas.DecodeImage(s.Raster)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Thumbnail(img, thumbWidth)); err != nil {
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentWidth, 10, s.Timestamp.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(s.ID, opts, &buf)
	pdf.ImageOptions(s.ID, margin, pdf.GetY()+2, contentWidth, 0, true, opts, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	m := s.Metrics
	rows := [][2]string{
		{"Line speed", fmt.Sprintf("%d", m.LineSpeed)},
		{"Line sharpness", fmt.Sprintf("%d", m.LineSharpness)},
		{"Color intensity", fmt.Sprintf("%d", m.ColorIntensity)},
		{"Pattern repetition", fmt.Sprintf("%d", m.PatternRepetition)},
	}
	p := trend.FromMetrics(s.Timestamp, m)
	rows = append(rows,
		[2]string{"Calmness / energy / focus", fmt.Sprintf("%d / %d / %d", p.Calmness, p.Energy, p.Focus)},
		[2]string{"Overall", fmt.Sprintf("%.0f%%", p.Composite()*100)},
		[2]string{"Mood", string(p.Emotion)},
	)
	for _, r := range rows {
		pdf.CellFormat(60, lineHeight, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth-60, lineHeight, r[1], "", 1, "L", false, 0, "")
	}

	reading := feedback.Classify(m)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentWidth, lineHeight, "State: "+string(reading.State), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(contentWidth, 6, reading.Description, "", "L", false)

	return pdf.Error()
}
