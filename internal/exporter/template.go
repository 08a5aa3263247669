package exporter

import (
	"bytes"
	"io/fs"
)

const (
	templateName = "default"
	stylesPath   = "xml/" + templateName + "/word/styles.xml"

	titleStyleID = "Title"

	// titleStyleXML is a centered bold paragraph style at outline level 0,
	// so Word lists the title in its navigation pane.
	titleStyleXML = `<w:style w:type="paragraph" w:styleId="` + titleStyleID + `">` +
		`<w:name w:val="Title"/><w:basedOn w:val="a"/><w:next w:val="a"/>` +
		`<w:uiPriority w:val="10"/><w:qFormat/>` +
		`<w:pPr><w:spacing w:after="240"/><w:jc w:val="center"/><w:outlineLvl w:val="0"/></w:pPr>` +
		`<w:rPr><w:b/><w:bCs/><w:sz w:val="36"/><w:szCs w:val="36"/></w:rPr>` +
		`</w:style>`
)

// styledTemplate serves the go-docx default template with the title style
// added to its style sheet.
type styledTemplate struct {
	base fs.FS
}

func (t styledTemplate) Open(name string) (fs.File, error) {
	if name != stylesPath {
		return t.base.Open(name)
	}

	data, err := fs.ReadFile(t.base, name)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(t.base, name)
	if err != nil {
		return nil, err
	}

	data = bytes.Replace(data, []byte("</w:styles>"), []byte(titleStyleXML+"</w:styles>"), 1)
	return &memFile{Reader: bytes.NewReader(data), info: sizedInfo{FileInfo: info, size: int64(len(data))}}, nil
}

type memFile struct {
	*bytes.Reader
	info fs.FileInfo
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error               { return nil }

type sizedInfo struct {
	fs.FileInfo
	size int64
}

func (i sizedInfo) Size() int64 { return i.size }
