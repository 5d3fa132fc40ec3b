package http

import (
	"encoding/json"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"

	"github.com/Ehco1996/myftp/pkg/log"
)

var RetryMax = 3

func GetJSONWithRetry(url string, dataStruct interface{}) error {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = RetryMax
	retryClient.Logger = log.NewZapLeveledLogger("http")

	resp, err := retryClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dataStruct)
}
