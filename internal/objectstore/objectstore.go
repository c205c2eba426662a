// Package objectstore implements the auxiliary object-store server: a
// filesystem-backed bucket/object HTTP API supervised like any other
// service.
package objectstore

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	"cirrus/internal/constants"
	cerrors "cirrus/internal/errors"
	"cirrus/internal/logger"
	"cirrus/internal/validation"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server serves buckets and objects from a directory tree
type Server struct {
	root string
	echo *echo.Echo
}

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// New creates an object-store server rooted at root
func New(root string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(logger.RequestLogger())

	s := &Server{root: root, echo: e}

	e.GET("/", s.handleListBuckets)
	e.PUT("/:bucket", s.handleCreateBucket)
	e.DELETE("/:bucket", s.handleDeleteBucket)
	e.GET("/:bucket", s.handleListObjects)
	e.PUT("/:bucket/:object", s.handlePutObject)
	e.GET("/:bucket/:object", s.handleGetObject)
	e.DELETE("/:bucket/:object", s.handleDeleteObject)

	return s
}

// Echo exposes the underlying echo instance for the service handle
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// bucketPath validates a bucket name and maps it to a directory
func (s *Server) bucketPath(bucket string) (string, error) {
	if err := validation.BucketName(bucket); err != nil {
		return "", err
	}
	return filepath.Join(s.root, bucket), nil
}

// objectPath validates an object name inside a bucket
func (s *Server) objectPath(bucket, object string) (string, error) {
	dir, err := s.bucketPath(bucket)
	if err != nil {
		return "", err
	}
	if err := validation.ObjectName(object); err != nil {
		return "", err
	}
	return filepath.Join(dir, object), nil
}

func (s *Server) handleListBuckets(c echo.Context) error {
	entries, err := os.ReadDir(s.root)
	if os.IsNotExist(err) {
		return c.JSON(http.StatusOK, []string{})
	}
	if err != nil {
		return cerrors.ToHTTPError(err)
	}

	buckets := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			buckets = append(buckets, entry.Name())
		}
	}
	sort.Strings(buckets)
	return c.JSON(http.StatusOK, buckets)
}

func (s *Server) handleCreateBucket(c echo.Context) error {
	dir, err := s.bucketPath(c.Param("bucket"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return cerrors.ToHTTPError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) handleDeleteBucket(c echo.Context) error {
	dir, err := s.bucketPath(c.Param("bucket"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return cerrors.ToHTTPError(cerrors.NewWithDetails(cerrors.ErrBucketNotFound, "bucket does not exist", c.Param("bucket")))
	}
	// Remove refuses non-empty directories, which is the semantics we want.
	if err := os.Remove(dir); err != nil {
		return cerrors.ToHTTPError(cerrors.Wrap(cerrors.ErrInvalidState, "bucket is not empty", err))
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListObjects(c echo.Context) error {
	dir, err := s.bucketPath(c.Param("bucket"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return cerrors.ToHTTPError(cerrors.NewWithDetails(cerrors.ErrBucketNotFound, "bucket does not exist", c.Param("bucket")))
	}
	if err != nil {
		return cerrors.ToHTTPError(err)
	}

	objects := []ObjectInfo{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		objects = append(objects, ObjectInfo{Name: entry.Name(), Size: info.Size()})
	}
	return c.JSON(http.StatusOK, objects)
}

func (s *Server) handlePutObject(c echo.Context) error {
	path, err := s.objectPath(c.Param("bucket"), c.Param("object"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		return cerrors.ToHTTPError(cerrors.NewWithDetails(cerrors.ErrBucketNotFound, "bucket does not exist", c.Param("bucket")))
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, c.Request().Body); err != nil {
		return cerrors.ToHTTPError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (s *Server) handleGetObject(c echo.Context) error {
	path, err := s.objectPath(c.Param("bucket"), c.Param("object"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cerrors.ToHTTPError(cerrors.NewWithDetails(cerrors.ErrObjectNotFound, "object does not exist", c.Param("object")))
	}
	return c.File(path)
}

func (s *Server) handleDeleteObject(c echo.Context) error {
	path, err := s.objectPath(c.Param("bucket"), c.Param("object"))
	if err != nil {
		return cerrors.ToHTTPError(err)
	}
	if err := os.Remove(path); os.IsNotExist(err) {
		return cerrors.ToHTTPError(cerrors.NewWithDetails(cerrors.ErrObjectNotFound, "object does not exist", c.Param("object")))
	} else if err != nil {
		return cerrors.ToHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
