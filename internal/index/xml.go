package index

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type xmlFormatter struct{}

// Render writes a <Folder> element per folder with <Folders> and <Files>
// children. Sizes are raw byte counts. The footer, when enabled, becomes an
// XML comment.
func (xmlFormatter) Render(root *FolderInfo, settings Settings) (string, error) {
	var sb strings.Builder
	sb.WriteString(xml.Header)

	enc := xml.NewEncoder(&sb)
	enc.Indent("", "  ")

	if settings.AddFooter {
		comment := strings.ReplaceAll(" "+Footer(settings)+" ", "--", "- -")
		if err := enc.EncodeToken(xml.Comment(comment)); err != nil {
			return "", err
		}
	}
	if err := writeXMLFolder(enc, root, settings); err != nil {
		return "", fmt.Errorf("failed to render xml index: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	sb.WriteString("\n")
	return sb.String(), nil
}

func writeXMLFolder(enc *xml.Encoder, dir *FolderInfo, settings Settings) error {
	var size string
	if settings.ShowSizeInfo && dir.Size > 0 {
		size = strconv.FormatInt(dir.Size, 10)
	}
	start := xmlStart("Folder", dir.Name, size, settings)
	if dir.AccessDenied {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "AccessDenied"}, Value: "true"})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if err := writeXMLFields(enc, dir.Name, size, settings); err != nil {
		return err
	}

	if len(dir.Folders) > 0 {
		folders := xml.StartElement{Name: xml.Name{Local: "Folders"}}
		if err := enc.EncodeToken(folders); err != nil {
			return err
		}
		for _, sub := range dir.Folders {
			if err := writeXMLFolder(enc, sub, settings); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(folders.End()); err != nil {
			return err
		}
	}

	if len(dir.Files) > 0 {
		files := xml.StartElement{Name: xml.Name{Local: "Files"}}
		if err := enc.EncodeToken(files); err != nil {
			return err
		}
		for _, file := range dir.Files {
			var fileSize string
			if settings.ShowSizeInfo {
				fileSize = strconv.FormatInt(file.Length, 10)
			}
			el := xmlStart("File", file.Name, fileSize, settings)
			if err := enc.EncodeToken(el); err != nil {
				return err
			}
			if err := writeXMLFields(enc, file.Name, fileSize, settings); err != nil {
				return err
			}
			if err := enc.EncodeToken(el.End()); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(files.End()); err != nil {
			return err
		}
	}

	return enc.EncodeToken(start.End())
}

// xmlStart builds an element carrying name and size as attributes when the
// settings ask for attributes.
func xmlStart(local, name, size string, settings Settings) xml.StartElement {
	el := xml.StartElement{Name: xml.Name{Local: local}}
	if !settings.XMLUseAttributes {
		return el
	}
	el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "Name"}, Value: name})
	if size != "" {
		el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: "Size"}, Value: size})
	}
	return el
}

// writeXMLFields writes name and size as child elements when attributes are
// disabled.
func writeXMLFields(enc *xml.Encoder, name, size string, settings Settings) error {
	if settings.XMLUseAttributes {
		return nil
	}
	if err := encodeXMLText(enc, "Name", name); err != nil {
		return err
	}
	if size != "" {
		return encodeXMLText(enc, "Size", size)
	}
	return nil
}

func encodeXMLText(enc *xml.Encoder, local, value string) error {
	el := xml.StartElement{Name: xml.Name{Local: local}}
	if err := enc.EncodeToken(el); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData(value)); err != nil {
		return err
	}
	return enc.EncodeToken(el.End())
}
