package service

import (
	"archive/zip"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/whatsfordinner/backend/config"
)

const recipeFileExtension = ".txt"

// CorpusLoader feeds recipe text files into the ingestion pipeline at
// startup. Sources are tried in precedence order: a local zip archive,
// a local recipes directory, then an S3 bucket prefix. Per-file failures
// are logged and skipped; the batch always runs to completion.
type CorpusLoader struct {
	ingestion *IngestionService
	zipPath   string
	dirPath   string
	s3cfg     *config.S3Config
}

// NewCorpusLoader creates a new CorpusLoader instance. s3cfg may be nil.
func NewCorpusLoader(ingestion *IngestionService, cfg *config.Config, s3cfg *config.S3Config) *CorpusLoader {
	return &CorpusLoader{
		ingestion: ingestion,
		zipPath:   cfg.CorpusZipPath,
		dirPath:   cfg.CorpusDir,
		s3cfg:     s3cfg,
	}
}

// Load ingests every recipe file from the first available source and
// returns the success and failure counts
func (l *CorpusLoader) Load(ctx context.Context) (succeeded, failed int) {
	if _, err := os.Stat(l.zipPath); err == nil {
		log.Printf("[CorpusLoader] loading recipes from %s", l.zipPath)
		return l.loadZip(ctx)
	}

	if info, err := os.Stat(l.dirPath); err == nil && info.IsDir() {
		log.Printf("[CorpusLoader] loading recipes from %s", l.dirPath)
		return l.loadDir(ctx)
	}

	if l.s3cfg != nil {
		log.Printf("[CorpusLoader] loading recipes from s3://%s/%s", l.s3cfg.BucketName, l.s3cfg.Prefix)
		return l.loadS3(ctx)
	}

	log.Printf("[CorpusLoader] no %s file, %s folder or S3 bucket configured; skipping startup load", l.zipPath, l.dirPath)
	return 0, 0
}

func (l *CorpusLoader) loadZip(ctx context.Context) (succeeded, failed int) {
	reader, err := zip.OpenReader(l.zipPath)
	if err != nil {
		log.Printf("[CorpusLoader] failed to open %s: %v", l.zipPath, err)
		return 0, 0
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() || !strings.HasSuffix(file.Name, recipeFileExtension) {
			continue
		}

		content, err := readZipFile(file)
		if err != nil {
			log.Printf("[CorpusLoader] failed to read %s: %v", file.Name, err)
			failed++
			continue
		}

		if l.ingestOne(ctx, content, file.Name) {
			succeeded++
		} else {
			failed++
		}
	}

	l.logSummary(succeeded, failed)
	return succeeded, failed
}

func (l *CorpusLoader) loadDir(ctx context.Context) (succeeded, failed int) {
	paths, err := filepath.Glob(filepath.Join(l.dirPath, "*"+recipeFileExtension))
	if err != nil {
		log.Printf("[CorpusLoader] failed to list %s: %v", l.dirPath, err)
		return 0, 0
	}
	if len(paths) == 0 {
		log.Printf("[CorpusLoader] no %s files found in %s", recipeFileExtension, l.dirPath)
		return 0, 0
	}
	sort.Strings(paths)

	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("[CorpusLoader] failed to read %s: %v", path, err)
			failed++
			continue
		}

		if l.ingestOne(ctx, string(content), filepath.Base(path)) {
			succeeded++
		} else {
			failed++
		}
	}

	l.logSummary(succeeded, failed)
	return succeeded, failed
}

func (l *CorpusLoader) loadS3(ctx context.Context) (succeeded, failed int) {
	paginator := s3.NewListObjectsV2Paginator(l.s3cfg.Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.s3cfg.BucketName),
		Prefix: aws.String(l.s3cfg.Prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			log.Printf("[CorpusLoader] failed to list s3 objects: %v", err)
			break
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, recipeFileExtension) {
				continue
			}

			out, err := l.s3cfg.Client.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(l.s3cfg.BucketName),
				Key:    aws.String(key),
			})
			if err != nil {
				log.Printf("[CorpusLoader] failed to fetch s3://%s/%s: %v", l.s3cfg.BucketName, key, err)
				failed++
				continue
			}

			content, err := io.ReadAll(out.Body)
			out.Body.Close()
			if err != nil {
				log.Printf("[CorpusLoader] failed to read s3://%s/%s: %v", l.s3cfg.BucketName, key, err)
				failed++
				continue
			}

			if l.ingestOne(ctx, string(content), key) {
				succeeded++
			} else {
				failed++
			}
		}
	}

	l.logSummary(succeeded, failed)
	return succeeded, failed
}

func (l *CorpusLoader) ingestOne(ctx context.Context, content, sourceRef string) bool {
	recipe, err := l.ingestion.Ingest(ctx, content, sourceRef)
	if err != nil {
		log.Printf("[CorpusLoader] failed to ingest %s: %v", sourceRef, err)
		return false
	}
	log.Printf("[CorpusLoader] ingested recipe: %s", recipe.Title)
	return true
}

func (l *CorpusLoader) logSummary(succeeded, failed int) {
	total := succeeded + failed
	if total == 0 {
		log.Printf("[CorpusLoader] no recipes were processed during startup loading")
		return
	}
	log.Printf("[CorpusLoader] startup loading completed: %d successful, %d errors out of %d files",
		succeeded, failed, total)
}

func readZipFile(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
