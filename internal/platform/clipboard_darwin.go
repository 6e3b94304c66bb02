//go:build darwin

package platform

import (
	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/types"
)

const (
	utiSVG = "public.svg-image"
	utiPDF = "com.adobe.pdf"
)

// darwinAdapter implements Adapter over NSPasteboard via cgo.
type darwinAdapter struct {
	logger *zap.Logger
}

// New returns the darwin Adapter.
func New(logger *zap.Logger) Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &darwinAdapter{logger: logger}
}

func (a *darwinAdapter) ChangeCounter() int64 {
	return int64(cgoChangeCount())
}

func (a *darwinAdapter) ActiveAppName() string {
	return cgoActiveAppName()
}

// Read follows the files → office → image → html → rtf → text priority
// order from spec §4.A.
func (a *darwinAdapter) Read() (*types.ClipboardContent, error) {
	if paths, ok := cgoReadFileList(); ok && len(paths) > 0 {
		return &types.ClipboardContent{Kind: types.KindFiles, Paths: paths, SourceApp: a.ActiveAppName()}, nil
	}

	if office, ok := a.readOffice(); ok {
		return office, nil
	}

	if data, format, ok := cgoReadImage(); ok {
		return &types.ClipboardContent{
			Kind:        types.KindImage,
			ImageBytes:  data,
			ImageFormat: utiToImageFormat(format),
			SourceApp:   a.ActiveAppName(),
		}, nil
	}

	if html, ok := cgoReadHTML(); ok {
		plain, _ := cgoReadText()
		if plain == "" {
			plain = stripHTML(html)
		}
		return &types.ClipboardContent{Kind: types.KindHTML, Markup: html, Plain: plain, SourceApp: a.ActiveAppName()}, nil
	}

	if rtf, ok := cgoReadRTF(); ok {
		plain, _ := cgoReadText()
		if plain == "" {
			plain = extractRTFText(rtf)
		}
		return &types.ClipboardContent{Kind: types.KindRTF, Markup: string(rtf), Plain: plain, SourceApp: a.ActiveAppName()}, nil
	}

	if text, ok := cgoReadText(); ok {
		return &types.ClipboardContent{Kind: types.KindText, Text: text, SourceApp: a.ActiveAppName()}, nil
	}

	return nil, nil
}

// readOffice implements the native-package-before-image detection rule:
// an Office payload also carries a PNG preview, which must not be mistaken
// for a standalone image, so this runs before the generic image branch.
func (a *darwinAdapter) readOffice() (*types.ClipboardContent, bool) {
	oleBytes, oleType, hasOLE := cgoReadLargestUnknownFormat()
	svg, hasSVG := cgoReadDataForType(utiSVG)
	pdf, hasPDF := cgoReadDataForType(utiPDF)
	png, _, hasPNG := cgoReadImage()

	if !hasOLE && !hasSVG && !hasPDF {
		return nil, false
	}

	text, _ := cgoReadText()
	if text == "" && hasSVG {
		text = extractSVGText(svg)
	}
	if text == "" && hasPDF {
		text = extractPDFText(pdf)
	}

	content := &types.ClipboardContent{
		Kind:          types.KindOffice,
		ExtractedText: text,
		SourceApp:     a.ActiveAppName(),
	}
	if hasOLE {
		content.OLEBytes = oleBytes
		content.OLEType = oleType
	}
	if hasSVG {
		content.SVG = svg
	}
	if hasPDF {
		content.PDF = pdf
	}
	if hasPNG {
		content.PNG = png
	}
	return content, true
}

// Write places every constituent representation onto the pasteboard,
// richest format first, per spec §4.A.
func (a *darwinAdapter) Write(content *types.ClipboardContent) error {
	switch content.Kind {
	case types.KindFiles:
		if !cgoWriteFileList(content.Paths) {
			return errWrite("files")
		}
	case types.KindOffice:
		if len(content.OLEBytes) > 0 && content.OLEType != "" {
			cgoWriteNativePackage(content.OLEType, content.OLEBytes)
		}
		if len(content.SVG) > 0 {
			cgoWriteDataForType(utiSVG, content.SVG)
		}
		if len(content.PDF) > 0 {
			cgoWriteDataForType(utiPDF, content.PDF)
		}
		if len(content.PNG) > 0 {
			cgoWriteImage(content.PNG, "public.png")
		}
		if content.ExtractedText != "" {
			cgoWriteText(content.ExtractedText)
		}
	case types.KindImage:
		if !cgoWriteImage(content.ImageBytes, imageFormatToUTI(content.ImageFormat)) {
			return errWrite("image")
		}
	case types.KindHTML:
		cgoWriteHTML(content.Markup)
		if content.Plain != "" {
			cgoWriteText(content.Plain)
		}
	case types.KindRTF:
		cgoWriteRTF([]byte(content.Markup))
		if content.Plain != "" {
			cgoWriteText(content.Plain)
		}
	case types.KindText:
		if !cgoWriteText(content.Text) {
			return errWrite("text")
		}
	}
	return nil
}

func utiToImageFormat(uti string) types.ImageFormat {
	switch uti {
	case "public.jpeg":
		return types.ImageJPEG
	case "public.tiff":
		return types.ImageTIFF
	default:
		return types.ImagePNG
	}
}

func imageFormatToUTI(f types.ImageFormat) string {
	switch f {
	case types.ImageJPEG:
		return "public.jpeg"
	case types.ImageTIFF:
		return "public.tiff"
	default:
		return "public.png"
	}
}
