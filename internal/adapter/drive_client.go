// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/utils"
	"github.com/MKhiriev/go-table-keeper/models"
)

// driveClient is a Google Drive v3 implementation of [ObjectStoreClient].
// Metadata calls go to the files API, content uploads to the upload API.
type driveClient struct {
	client    *utils.HTTPClient
	apiURL    string
	uploadURL string
	logger    *logger.Logger
}

// driveFile is the subset of the Drive file resource the adapter reads.
type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModifiedTime string `json:"modifiedTime"`
}

type driveFileList struct {
	Files []driveFile `json:"files"`
}

// NewDriveClient constructs an [ObjectStoreClient] talking to the object
// store endpoints in cfg.
func NewDriveClient(cfg config.Provider, logger *logger.Logger) ObjectStoreClient {
	client := utils.NewHTTPClient()
	client.SetTimeout(cfg.RequestTimeout)

	return &driveClient{
		client:    client,
		apiURL:    cfg.StoreAPIURL,
		uploadURL: cfg.StoreUploadURL,
		logger:    logger,
	}
}

// FindByName implements [ObjectStoreClient]. Trashed objects are excluded
// and the newest match wins when names collide.
func (d *driveClient) FindByName(ctx context.Context, accessToken string, name string) (models.RemoteObject, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParams(map[string]string{
			"q":       fmt.Sprintf("name='%s' and trashed=false", name),
			"fields":  "files(id,name,modifiedTime)",
			"orderBy": "modifiedTime desc",
		}).
		Get(d.apiURL + "/files")
	if err != nil {
		return models.RemoteObject{}, fmt.Errorf("find object request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteObject{}, err
	}

	var list driveFileList
	if err = json.Unmarshal(resp.Body(), &list); err != nil {
		return models.RemoteObject{}, fmt.Errorf("find object decode: %w", err)
	}
	if len(list.Files) == 0 {
		return models.RemoteObject{}, ErrObjectNotFound
	}

	return toRemoteObject(list.Files[0]), nil
}

// Upload implements [ObjectStoreClient]. A missing object is created with a
// multipart request carrying metadata and content; an existing one gets its
// content replaced in place, which keeps the object id stable across syncs.
func (d *driveClient) Upload(ctx context.Context, accessToken string, name string, content []byte) (models.RemoteObject, error) {
	existing, err := d.FindByName(ctx, accessToken, name)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return d.create(ctx, accessToken, name, content)
		}
		return models.RemoteObject{}, err
	}

	return d.update(ctx, accessToken, existing.ID, content)
}

func (d *driveClient) create(ctx context.Context, accessToken string, name string, content []byte) (models.RemoteObject, error) {
	body, contentType, err := multipartRelated(name, content)
	if err != nil {
		return models.RemoteObject{}, err
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("uploadType", "multipart").
		SetHeader("Content-Type", contentType).
		SetBody(body).
		Post(d.uploadURL + "/files")
	if err != nil {
		return models.RemoteObject{}, fmt.Errorf("create object request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteObject{}, err
	}

	return decodeRemoteObject(resp.Body())
}

func (d *driveClient) update(ctx context.Context, accessToken string, id string, content []byte) (models.RemoteObject, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("uploadType", "media").
		SetHeader("Content-Type", "application/json").
		SetBody(content).
		Patch(d.uploadURL + "/files/" + id)
	if err != nil {
		return models.RemoteObject{}, fmt.Errorf("update object request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteObject{}, err
	}

	return decodeRemoteObject(resp.Body())
}

// Download implements [ObjectStoreClient].
func (d *driveClient) Download(ctx context.Context, accessToken string, id string) ([]byte, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParam("alt", "media").
		Get(d.apiURL + "/files/" + id)
	if err != nil {
		return nil, fmt.Errorf("download object request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrObjectNotFound
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return resp.Body(), nil
}

// List implements [ObjectStoreClient].
func (d *driveClient) List(ctx context.Context, accessToken string) ([]models.RemoteObject, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetQueryParams(map[string]string{
			"q":      "trashed=false",
			"fields": "files(id,name,modifiedTime)",
		}).
		Get(d.apiURL + "/files")
	if err != nil {
		return nil, fmt.Errorf("list objects request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var list driveFileList
	if err = json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("list objects decode: %w", err)
	}

	objects := make([]models.RemoteObject, 0, len(list.Files))
	for _, f := range list.Files {
		objects = append(objects, toRemoteObject(f))
	}

	return objects, nil
}

// multipartRelated assembles the two-part upload body the object store
// expects: a JSON metadata part followed by the raw content part.
func multipartRelated(name string, content []byte) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	metaPart, err := writer.CreatePart(metaHeader)
	if err != nil {
		return nil, "", fmt.Errorf("error creating metadata part: %w", err)
	}
	if err = json.NewEncoder(metaPart).Encode(map[string]string{"name": name}); err != nil {
		return nil, "", fmt.Errorf("error encoding metadata part: %w", err)
	}

	contentHeader := textproto.MIMEHeader{}
	contentHeader.Set("Content-Type", "application/json")
	contentPart, err := writer.CreatePart(contentHeader)
	if err != nil {
		return nil, "", fmt.Errorf("error creating content part: %w", err)
	}
	if _, err = contentPart.Write(content); err != nil {
		return nil, "", fmt.Errorf("error writing content part: %w", err)
	}

	if err = writer.Close(); err != nil {
		return nil, "", fmt.Errorf("error finalizing multipart body: %w", err)
	}

	return buf.Bytes(), "multipart/related; boundary=" + writer.Boundary(), nil
}

func decodeRemoteObject(body []byte) (models.RemoteObject, error) {
	var f driveFile
	if err := json.Unmarshal(body, &f); err != nil {
		return models.RemoteObject{}, fmt.Errorf("object decode: %w", err)
	}

	return toRemoteObject(f), nil
}

func toRemoteObject(f driveFile) models.RemoteObject {
	modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return models.RemoteObject{
		ID:         f.ID,
		Name:       f.Name,
		ModifiedAt: modified,
	}
}
