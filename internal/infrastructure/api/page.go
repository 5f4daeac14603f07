package api

import (
	"html/template"
)

type pageState string

const (
	// 画像未キャプチャ
	stateIdle pageState = "idle"
	// キャプチャ済み・レポート表示中
	stateReported pageState = "reported"
)

type banner struct {
	// warning | error
	Level   string
	Message string
}

type pageData struct {
	State  pageState
	Banner *banner
	// 入力エラー（画像未選択など）
	Notice string

	CapturedImage     template.URL
	ReportHTML        template.HTML
	CompletionMessage string
}

func (d pageData) Reported() bool {
	return d.State == stateReported
}

var pageTemplate = template.Must(template.New("index").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1.0"/>
<title>AI 관상 전문가</title>
<script src="https://cdn.tailwindcss.com"></script>
<style>
body { font-family: Inter, system-ui, -apple-system, "Apple SD Gothic Neo", "Malgun Gothic", sans-serif; }
.loader{border:8px solid #f3f3f3;border-top:8px solid #6366f1;border-radius:50%;width:56px;height:56px;animation:spin 1.2s linear infinite}
@keyframes spin{0%{transform:rotate(0)}100%{transform:rotate(360deg)}}
.report h1,.report h2,.report h3{font-weight:700;margin-top:1rem}
.report p{margin:.6rem 0;line-height:1.7}
.report ul{list-style:disc;padding-left:1.5rem}
.report ol{list-style:decimal;padding-left:1.5rem}
.report strong{color:#312e81}
.camera-preview{width:100%;max-height:360px;background:#111827;border-radius:8px;object-fit:cover}
</style>
</head>
<body class="bg-gray-50 text-gray-800">
<div class="container mx-auto p-4 md:p-8 max-w-3xl">

<header class="text-center mb-6">
<h1 class="text-3xl md:text-4xl font-bold text-gray-900">✨ AI 관상 전문가</h1>
</header>
<hr class="mb-6"/>

{{with .Banner}}
<div id="startup-banner" data-level="{{.Level}}" class="mb-6 px-4 py-3 rounded-lg border {{if eq .Level "error"}}bg-red-100 border-red-400 text-red-700{{else}}bg-yellow-100 border-yellow-400 text-yellow-800{{end}}">{{.Message}}</div>
{{end}}

<p class="mb-6 text-gray-700">
<strong>안내:</strong> 관상 분석을 위해 [사진 촬영] 버튼을 눌러 <strong>정면 사진을 캡처</strong>해 주세요.
(실시간 웹캠 스트리밍 대신 사진 캡처 기능을 사용합니다.)
</p>

<main class="bg-white p-6 md:p-8 rounded-2xl shadow-lg" data-state="{{.State}}">
<section id="capture-section" class="mb-6">
<video id="camera" class="camera-preview hidden" autoplay playsinline muted></video>
<canvas id="snapshot" class="hidden"></canvas>
<div class="flex flex-wrap justify-center gap-3 mt-4">
<button type="button" id="camera-btn" class="px-4 py-2 bg-gray-700 text-white rounded-lg hover:bg-gray-800 transition-colors font-medium shadow-sm">카메라 켜기</button>
<button type="button" id="capture-btn" disabled class="px-6 py-2 bg-indigo-600 text-white rounded-lg hover:bg-indigo-700 transition-colors font-medium shadow-sm disabled:opacity-50">📸 사진 촬영</button>
</div>
<form id="capture-form" method="post" action="/analyze" enctype="multipart/form-data" class="mt-4 text-center">
<label class="block text-sm text-gray-500 mb-2" for="image-input">카메라를 사용할 수 없는 경우 직접 촬영하거나 사진을 선택하세요.</label>
<input type="file" id="image-input" name="image" accept="image/*" capture="user" class="mx-auto block text-sm">
<button type="submit" class="mt-3 px-4 py-2 text-sm rounded-lg border border-gray-300 text-gray-600 hover:bg-gray-50">분석하기</button>
</form>
</section>

<div id="notice" class="{{if not .Notice}}hidden {{end}}mb-4 bg-red-100 border border-red-400 text-red-700 px-4 py-3 rounded-lg">{{.Notice}}</div>

<section id="result-section" class="{{if not .Reported}}hidden{{end}}">
<div id="captured-info" class="mb-4 bg-blue-50 border border-blue-200 text-blue-800 px-4 py-3 rounded-lg">✅ 사진이 캡처되었습니다. AI 관상 분석을 시작합니다.</div>
<figure class="mb-6 text-center">
<img id="captured-image" class="max-w-full mx-auto rounded-lg shadow" alt="캡처된 사진" {{if .CapturedImage}}src="{{.CapturedImage}}"{{end}}>
<figcaption class="text-sm text-gray-500 mt-2">캡처된 사진</figcaption>
</figure>
<div id="busy" class="hidden flex flex-col items-center gap-3 my-6">
<div class="loader"></div>
<p class="text-gray-600">Gemini AI가 전문적인 관상 보고서를 작성 중입니다... (잠시만 기다려주세요)</p>
</div>
<div id="report-block">
<h2 class="text-2xl font-bold mb-4 text-gray-800">📊 관상 분석 보고서</h2>
<div id="report" class="report">{{.ReportHTML}}</div>
<div id="completion" class="{{if not .CompletionMessage}}hidden {{end}}mt-6 bg-green-100 border border-green-400 text-green-800 px-4 py-3 rounded-lg">{{.CompletionMessage}}</div>
</div>
</section>
</main>

<hr class="my-6"/>
<footer class="text-center text-sm text-gray-500">본 분석은 AI 기반의 관상학적 해석이며, 재미로 참고해 주시기 바랍니다.</footer>
</div>
<script>
const video = document.getElementById('camera');
const canvas = document.getElementById('snapshot');
const cameraBtn = document.getElementById('camera-btn');
const captureBtn = document.getElementById('capture-btn');
const form = document.getElementById('capture-form');
const imageInput = document.getElementById('image-input');
const notice = document.getElementById('notice');
const resultSection = document.getElementById('result-section');
const capturedImage = document.getElementById('captured-image');
const busy = document.getElementById('busy');
const reportBlock = document.getElementById('report-block');
const report = document.getElementById('report');
const completion = document.getElementById('completion');

let inflight = null;

cameraBtn.addEventListener('click', async () => {
    try {
        const stream = await navigator.mediaDevices.getUserMedia({ video: { facingMode: 'user' }, audio: false });
        video.srcObject = stream;
        video.classList.remove('hidden');
        captureBtn.disabled = false;
        notice.classList.add('hidden');
    } catch (err) {
        console.error(err);
        notice.textContent = '카메라를 사용할 수 없습니다: ' + err.message;
        notice.classList.remove('hidden');
    }
});

captureBtn.addEventListener('click', () => {
    canvas.width = video.videoWidth;
    canvas.height = video.videoHeight;
    canvas.getContext('2d').drawImage(video, 0, 0);
    canvas.toBlob((blob) => { if (blob) analyze(blob); }, 'image/jpeg', 0.9);
});

form.addEventListener('submit', (event) => {
    event.preventDefault();
    const file = imageInput.files[0];
    if (!file) {
        notice.textContent = '사진을 촬영하거나 선택해주세요.';
        notice.classList.remove('hidden');
        return;
    }
    analyze(file);
});

async function analyze(blob) {
    // 新しいキャプチャが来たら前のリクエストの結果は捨てる
    if (inflight) inflight.abort();
    const controller = new AbortController();
    inflight = controller;

    notice.classList.add('hidden');
    resultSection.classList.remove('hidden');
    capturedImage.src = URL.createObjectURL(blob);
    reportBlock.classList.add('hidden');
    completion.classList.add('hidden');
    busy.classList.remove('hidden');
    captureBtn.disabled = true;

    const formData = new FormData();
    formData.append('image', blob, 'capture.jpg');

    try {
        const resp = await fetch('/api/analyze', { method: 'POST', body: formData, signal: controller.signal });
        const data = await resp.json();
        if (!resp.ok) {
            throw new Error(data && data.error ? data.error : 'HTTP ' + resp.status);
        }
        report.innerHTML = data.report_html;
        completion.textContent = data.completion_message;
        completion.classList.remove('hidden');
        reportBlock.classList.remove('hidden');
    } catch (err) {
        if (err.name === 'AbortError') return;
        console.error(err);
        notice.textContent = '오류: ' + err.message;
        notice.classList.remove('hidden');
    } finally {
        if (inflight === controller) {
            inflight = null;
            busy.classList.add('hidden');
            captureBtn.disabled = !video.srcObject;
        }
    }
}
</script>
</body>
</html>`
