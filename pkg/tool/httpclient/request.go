/*
Copyright 2024 The KodeRover Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package httpclient

import (
	"io"

	"github.com/go-resty/resty/v2"
)

type ClientFunc func(*Client)

func SetHostURL(host string) ClientFunc {
	return func(c *Client) {
		c.Host = host
		c.Client.SetHostURL(host)
	}
}

func SetBaseURI(uri string) ClientFunc {
	return func(c *Client) {
		c.BaseURI = uri
	}
}

func SetClientBasicAuth(username, password string) ClientFunc {
	return func(c *Client) {
		c.Client.SetBasicAuth(username, password)
	}
}

func SetClientHeader(header, value string) ClientFunc {
	return func(c *Client) {
		c.Client.SetHeader(header, value)
	}
}

type RequestFunc func(*resty.Request)

func SetBody(body interface{}) RequestFunc {
	return func(r *resty.Request) {
		r.SetBody(body)
	}
}

func SetResult(result interface{}) RequestFunc {
	return func(r *resty.Request) {
		r.SetResult(result)
	}
}

func SetQueryParam(param, value string) RequestFunc {
	return func(r *resty.Request) {
		r.SetQueryParam(param, value)
	}
}

func SetQueryParams(params map[string]string) RequestFunc {
	return func(r *resty.Request) {
		r.SetQueryParams(params)
	}
}

func SetHeader(header, value string) RequestFunc {
	return func(r *resty.Request) {
		r.SetHeader(header, value)
	}
}

func SetHeaders(headers map[string]string) RequestFunc {
	return func(r *resty.Request) {
		r.SetHeaders(headers)
	}
}

func SetFormData(data map[string]string) RequestFunc {
	return func(r *resty.Request) {
		r.SetFormData(data)
	}
}

// SetFileReader attaches one multipart file field to the request.
func SetFileReader(param, fileName string, reader io.Reader) RequestFunc {
	return func(r *resty.Request) {
		r.SetFileReader(param, fileName, reader)
	}
}
