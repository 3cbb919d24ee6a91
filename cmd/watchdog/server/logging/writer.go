package logging

import (
	"net/http"

	"k8s.io/klog/v2"
)

func NewLoggingWriter(logger klog.Logger, w http.ResponseWriter, r *http.Request, f LogFormatter) *loggingWriter {
	return &loggingWriter{ResponseWriter: w, request: r, formatter: f, logger: logger, responseStatus: http.StatusOK}
}

type loggingWriter struct {
	http.ResponseWriter
	request        *http.Request
	formatter      LogFormatter
	responseStatus int
	responseBody   []byte
	logger         klog.Logger
}

func (writer *loggingWriter) Write(body []byte) (int, error) {
	writer.responseBody = append(writer.responseBody, body...)
	return writer.ResponseWriter.Write(body)
}

func (writer *loggingWriter) WriteHeader(status int) {
	writer.responseStatus = status
	writer.ResponseWriter.WriteHeader(status)
}

func (writer *loggingWriter) log(level int, logMsg string, err error) {
	switch err {
	case nil:
		writer.logger.V(level).Info(logMsg)
	default:
		writer.logger.Error(err, "Unable to format request/response log")
	}
}

func (writer *loggingWriter) prepareRequestLog() (string, error) {
	return writer.formatter.FormatRequestLog(writer.logger, writer.request)
}

func (writer *loggingWriter) prepareResponseLog(elapsed string) (string, error) {
	info := &ResponseInfo{
		Header:  writer.ResponseWriter.Header(),
		Body:    writer.responseBody,
		Status:  writer.responseStatus,
		Elapsed: elapsed,
	}

	return writer.formatter.FormatResponseLog(writer.logger, info)
}
