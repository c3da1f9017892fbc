package stats

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/ansel1/merry"
)

// Status is the outcome of one expected file in a bulk download.
type Status string

const (
	Downloaded Status = "downloaded"
	NotFound   Status = "not found"
	Failed     Status = "failed"
)

// File represents one statistics file published under a listing.
type File struct {
	Name   string
	URL    string
	Path   string
	Size   int
	Status Status
	Err    error
}

// Download fetches the file and writes its bytes verbatim to f.Path.
func (f *File) Download(ctx context.Context, c *Client) error {
	data, err := c.Get(ctx, f.URL)
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0o644); err != nil {
		return merry.Prepend(err, "write "+f.Path)
	}
	f.Size = len(data)
	return nil
}

type DownloadFilesArgs struct {
	ListingURL    string
	Files         []string
	Dir           string
	Delay         time.Duration
	RespectRobots bool
}

// DownloadFiles fetches the listing once and then downloads every expected file
// that is linked from it, one at a time with a pause in between. A missing or
// failing file is recorded and the loop moves on. Only a failure to read the
// listing itself, including robots.txt refusing it, is returned as an error.
func (c *Client) DownloadFiles(ctx context.Context, a DownloadFilesArgs) ([]*File, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return nil, merry.Prepend(err, "create download folder")
	}

	if a.RespectRobots && !c.Allowed(ctx, a.ListingURL) {
		return nil, merry.Errorf("%s disallowed by robots.txt", a.ListingURL)
	}
	listing, err := c.FetchListing(ctx, a.ListingURL)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(a.Files))
	for i, name := range a.Files {
		f := &File{
			Name: name,
			URL:  listing.FileURL(name),
			Path: filepath.Join(a.Dir, name),
		}
		files = append(files, f)

		c.fetchListed(ctx, listing, f, a.RespectRobots)

		if i < len(a.Files)-1 {
			if err := Pause(ctx, a.Delay); err != nil {
				return files, err
			}
		}
	}
	return files, nil
}

func (c *Client) fetchListed(ctx context.Context, listing *Listing, f *File, respectRobots bool) {
	if _, ok := listing.Match(f.Name); !ok {
		f.Status = NotFound
		c.log.Warn("file not found on the page", "file", f.Name)
		return
	}

	if respectRobots && !c.Allowed(ctx, f.URL) {
		f.Status = Failed
		f.Err = merry.Errorf("%s disallowed by robots.txt", f.URL)
		c.log.PrintErr(f.Err, "file", f.Name)
		return
	}

	c.log.Info("downloading", "file", f.Name, "url", f.URL)
	if err := f.Download(ctx, c); err != nil {
		f.Status = Failed
		f.Err = err
		c.log.PrintErr(err, "file", f.Name)
		return
	}
	f.Status = Downloaded
	c.log.Info("downloaded", "file", f.Name, "bytes", f.Size)
}

// CountByStatus tallies the outcome of a bulk download.
func CountByStatus(files []*File) map[Status]int {
	n := make(map[Status]int)
	for _, f := range files {
		n[f.Status]++
	}
	return n
}
