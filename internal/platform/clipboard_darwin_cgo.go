//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#include "clipboard_darwin.m"
#include <stdlib.h>
*/
import "C"
import "unsafe"

func cgoChangeCount() uint64 {
	return uint64(C.clipsx_getChangeCount())
}

func cgoActiveAppName() string {
	cstr := C.clipsx_activeAppName()
	if cstr == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr)
}

func cgoReadText() (string, bool) {
	cstr := C.clipsx_readText()
	if cstr == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr), true
}

func cgoWriteText(s string) bool {
	cstr := C.CString(s)
	defer C.free(unsafe.Pointer(cstr))
	return C.clipsx_writeText(cstr) != 0
}

func cgoReadHTML() (string, bool) {
	cstr := C.clipsx_readHTML()
	if cstr == nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr), true
}

func cgoWriteHTML(html string) bool {
	cstr := C.CString(html)
	defer C.free(unsafe.Pointer(cstr))
	return C.clipsx_writeHTML(cstr) != 0
}

func cgoReadRTF() ([]byte, bool) {
	var outLen C.size_t
	ptr := C.clipsx_readRTF(&outLen)
	if ptr == nil || outLen == 0 {
		return nil, false
	}
	defer C.free(ptr)
	return C.GoBytes(ptr, C.int(outLen)), true
}

func cgoWriteRTF(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return C.clipsx_writeRTF(unsafe.Pointer(&data[0]), C.size_t(len(data))) != 0
}

func cgoReadImage() ([]byte, string, bool) {
	var outLen C.size_t
	var outFormat *C.char
	ptr := C.clipsx_readImage(&outLen, &outFormat)
	if ptr == nil || outLen == 0 {
		return nil, "", false
	}
	defer C.free(ptr)
	defer C.free(unsafe.Pointer(outFormat))
	return C.GoBytes(ptr, C.int(outLen)), C.GoString(outFormat), true
}

func cgoWriteImage(data []byte, uti string) bool {
	if len(data) == 0 {
		return false
	}
	cuti := C.CString(uti)
	defer C.free(unsafe.Pointer(cuti))
	return C.clipsx_writeImage(unsafe.Pointer(&data[0]), C.size_t(len(data)), cuti) != 0
}

func cgoReadFileList() ([]string, bool) {
	var outCount C.size_t
	cList := C.clipsx_readFileList(&outCount)
	if cList == nil || outCount == 0 {
		return nil, false
	}
	defer C.clipsx_freeFileList(cList, outCount)
	result := make([]string, int(outCount))
	cArray := (*[1 << 20]*C.char)(unsafe.Pointer(cList))[:outCount:outCount]
	for i, cstr := range cArray {
		result[i] = C.GoString(cstr)
	}
	return result, true
}

func cgoWriteFileList(paths []string) bool {
	count := len(paths)
	if count == 0 {
		return false
	}
	cArray := make([]*C.char, count)
	for i, p := range paths {
		cArray[i] = C.CString(p)
		defer C.free(unsafe.Pointer(cArray[i]))
	}
	return C.clipsx_writeFileList((**C.char)(unsafe.Pointer(&cArray[0])), C.size_t(count)) != 0
}

func cgoReadLargestUnknownFormat() ([]byte, string, bool) {
	var outLen C.size_t
	var outType *C.char
	ptr := C.clipsx_readLargestUnknownFormat(&outLen, &outType)
	if ptr == nil || outLen == 0 {
		return nil, "", false
	}
	defer C.free(ptr)
	defer C.free(unsafe.Pointer(outType))
	return C.GoBytes(ptr, C.int(outLen)), C.GoString(outType), true
}

func cgoWriteNativePackage(uti string, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	cuti := C.CString(uti)
	defer C.free(unsafe.Pointer(cuti))
	return C.clipsx_writeNativePackage(cuti, unsafe.Pointer(&data[0]), C.size_t(len(data))) != 0
}

func cgoReadDataForType(uti string) ([]byte, bool) {
	cuti := C.CString(uti)
	defer C.free(unsafe.Pointer(cuti))
	var outLen C.size_t
	ptr := C.clipsx_readDataForType(cuti, &outLen)
	if ptr == nil || outLen == 0 {
		return nil, false
	}
	defer C.free(ptr)
	return C.GoBytes(ptr, C.int(outLen)), true
}

func cgoWriteDataForType(uti string, data []byte) bool {
	if len(data) == 0 {
		return false
	}
	cuti := C.CString(uti)
	defer C.free(unsafe.Pointer(cuti))
	return C.clipsx_writeDataForType(cuti, unsafe.Pointer(&data[0]), C.size_t(len(data))) != 0
}
