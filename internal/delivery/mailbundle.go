package delivery

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pdfcourier/api/internal/client"
	"github.com/pdfcourier/api/internal/config"
	"github.com/pdfcourier/api/internal/model"
)

// MailBundle zips the artifacts and mails the archive as one
// attachment. Archives above the configured ceiling are never sent;
// the result tells the recipient to use the share strategy instead.
type MailBundle struct {
	mailer   client.MailSender
	maxBytes int64
}

// NewMailBundle creates the email delivery strategy
func NewMailBundle(mailer client.MailSender, cfg *config.MailConfig) *MailBundle {
	maxMB := cfg.MaxAttachmentMB
	if maxMB <= 0 {
		maxMB = 25
	}
	return &MailBundle{
		mailer:   mailer,
		maxBytes: int64(maxMB) * 1024 * 1024,
	}
}

// Deliver builds and sends the archive. The archive is removed again
// on every path out of here; only the mailbox keeps a copy.
func (m *MailBundle) Deliver(ctx context.Context, req *Request) *model.DeliveryResult {
	res := &model.DeliveryResult{
		Strategy:  string(model.StrategyEmail),
		Recipient: req.Recipient,
	}

	archiveName := fmt.Sprintf("%s-%s.zip", slugName(req.FolderName), shortID(req.JobID))
	archivePath := filepath.Join(req.StagingDir, archiveName)

	size, count, err := writeArchive(archivePath, req.Result)
	if err != nil {
		res.Error = fmt.Sprintf("failed to build archive: %v", err)
		return res
	}
	defer os.Remove(archivePath)

	res.FileCount = count
	res.ArchiveSize = size

	log.Printf("[Delivery] job=%s archive %s: %d files, %d bytes", req.JobID, archiveName, count, size)

	if size > m.maxBytes {
		res.Error = fmt.Sprintf("archive is %.1fMB which exceeds the %dMB mail limit, use the share delivery instead",
			float64(size)/(1024*1024), m.maxBytes/(1024*1024))
		return res
	}

	mail := &client.ArchiveMail{
		To:          req.Recipient,
		Subject:     fmt.Sprintf("Your PDFs are ready (%d files)", count),
		Body:        mailBody(req, count),
		ArchivePath: archivePath,
		ArchiveName: archiveName,
	}
	if err := m.mailer.SendArchive(ctx, mail); err != nil {
		res.Error = err.Error()
		return res
	}

	res.Success = true
	return res
}

// writeArchive zips all artifacts plus the summary index into path
// and returns the archive size and the number of artifacts packed.
// When two items share a file name the first one wins.
func writeArchive(path string, result *model.BatchResult) (int64, int, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create archive: %w", err)
	}

	zw := zip.NewWriter(out)
	count := 0
	seen := make(map[string]bool)

	for _, a := range result.Success {
		if seen[a.FileName] {
			log.Printf("[Delivery] skipping duplicate archive entry %s", a.FileName)
			continue
		}
		seen[a.FileName] = true

		if err := addArchiveFile(zw, a.FileName, a.LocalPath); err != nil {
			zw.Close()
			out.Close()
			os.Remove(path)
			return 0, 0, err
		}
		count++
	}

	entry, err := zw.Create(IndexFileName)
	if err == nil {
		_, err = entry.Write([]byte(BuildIndex(result)))
	}
	if err != nil {
		zw.Close()
		out.Close()
		os.Remove(path)
		return 0, 0, fmt.Errorf("failed to write %s: %w", IndexFileName, err)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(path)
		return 0, 0, fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return 0, 0, fmt.Errorf("failed to flush archive: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat archive: %w", err)
	}
	return info.Size(), count, nil
}

func addArchiveFile(zw *zip.Writer, name, localPath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to pack %s: %w", name, err)
	}
	return nil
}

func mailBody(req *Request, count int) string {
	failed := len(req.Result.Failed)
	body := fmt.Sprintf("<p>Hello,</p><p>%d of %d requested pages were converted to PDF and are attached as a ZIP archive.</p>",
		count, req.Result.Total)
	if failed > 0 {
		body += fmt.Sprintf("<p>%d URL(s) could not be converted. See %s inside the archive for details.</p>",
			failed, IndexFileName)
	}
	body += "<p>PDF Courier</p>"
	return body
}
